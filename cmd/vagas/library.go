package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vagas-go/internal/library"
	"vagas-go/internal/vagas"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the photo library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library photos",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawTags, _ := cmd.Flags().GetStringSlice("tags")
		tags, err := vagas.ParseTags(rawTags)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "ListLibrary", args)
		if err != nil {
			return err
		}
		defer a.Close()

		images, err := a.Library().List(cmd.Context())
		if err != nil {
			return run(a, err)
		}
		if len(tags) > 0 {
			images = vagas.FilterByTags(images, tags)
		}
		if len(images) == 0 {
			fmt.Println("No photos found.")
			return nil
		}

		for _, img := range images {
			label := "untagged"
			if !img.NeedsCategorization() {
				parts := make([]string, len(img.Tags))
				for i, t := range img.Tags {
					parts[i] = string(t)
				}
				label = strings.Join(parts, ",")
			}
			fmt.Printf("%-36s  %-24s  %s\n", img.ID, label, shortURL(img.URL))
		}
		return nil
	},
}

// shortURL keeps data URIs from flooding the terminal.
func shortURL(u string) string {
	if strings.HasPrefix(u, "data:") && len(u) > 40 {
		return u[:40] + "..."
	}
	return u
}

var libraryAddCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Upload photos; they are resized to 800px JPEG and start untagged",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddImages", args)
		if err != nil {
			return err
		}
		defer a.Close()

		var files []library.File
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return run(a, fmt.Errorf("opening %s: %w", path, err))
			}
			defer f.Close()
			files = append(files, library.File{Name: filepath.Base(path), Reader: f})
		}

		res := a.Library().UploadBatch(cmd.Context(), files)
		for _, img := range res.Added {
			fmt.Printf("Added %s\n", img.ID)
		}
		for _, fe := range res.Failed {
			fmt.Printf("Failed %s\n", fe.Error())
		}
		if len(res.Failed) > 0 {
			return run(a, fmt.Errorf("%d of %d uploads failed", len(res.Failed), len(files)))
		}
		return nil
	},
}

var libraryTagCmd = &cobra.Command{
	Use:   "tag ID [TAG...]",
	Short: "Replace the tags of a photo; no tags clears them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := vagas.ParseTags(args[1:])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), "TagImage", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Library().SetTags(cmd.Context(), args[0], tags); err != nil {
			return run(a, err)
		}
		fmt.Printf("Tagged %s with %d tag(s)\n", args[0], len(tags))
		return nil
	},
}

var libraryRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Remove a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "RemoveImage", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Library().Remove(cmd.Context(), args[0]); err != nil {
			return run(a, err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var librarySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the built-in stock photos",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "SeedLibrary", args)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Library().Seed(cmd.Context())
		if err != nil {
			return run(a, err)
		}
		fmt.Printf("Added %d stock photo(s)\n", n)
		return nil
	},
}

func init() {
	libraryListCmd.Flags().StringSlice("tags", nil, "Only photos carrying every tag, e.g. --tags Mulher,PCD")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryTagCmd)
	libraryCmd.AddCommand(libraryRmCmd)
	libraryCmd.AddCommand(librarySeedCmd)
	rootCmd.AddCommand(libraryCmd)
}
