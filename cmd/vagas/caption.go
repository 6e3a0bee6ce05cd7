package main

import (
	"fmt"

	"vagas-go/internal/caption"
	"vagas-go/internal/vagas"

	"github.com/spf13/cobra"
)

var captionCmd = &cobra.Command{
	Use:   "caption ID",
	Short: "Print a post caption for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		audience, _ := cmd.Flags().GetString("audience")

		a, err := newApp(cmd.Context(), "Caption", args)
		if err != nil {
			return err
		}
		defer a.Close()

		job, err := a.Jobs().GetJob(cmd.Context(), args[0])
		if err != nil {
			return run(a, err)
		}
		fmt.Println(a.Captions().Caption(*job, index, caption.Mode(audience)))
		return nil
	},
}

var captionCarouselCmd = &cobra.Command{
	Use:   "carousel ID...",
	Short: "Print the weekly carousel caption for the given jobs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")

		a, err := newApp(cmd.Context(), "CarouselCaption", args)
		if err != nil {
			return err
		}
		defer a.Close()

		jobs := make([]vagas.JobPosting, 0, len(args))
		for _, id := range args {
			job, err := a.Jobs().GetJob(cmd.Context(), id)
			if err != nil {
				return run(a, err)
			}
			jobs = append(jobs, *job)
		}
		fmt.Println(caption.CarouselCaption(jobs, index))
		return nil
	},
}

func init() {
	captionCmd.Flags().IntP("index", "i", 0, "Caption variant; cycles through the pool")
	captionCmd.Flags().String("audience", "", "Affirmative audience; empty for the general pool")
	captionCarouselCmd.Flags().IntP("index", "i", 0, "Caption variant; cycles through the pool")

	captionCmd.AddCommand(captionCarouselCmd)
	rootCmd.AddCommand(captionCmd)
}
