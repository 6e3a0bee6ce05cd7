package main

import (
	"errors"
	"fmt"

	"vagas-go/internal/app"
	"vagas-go/internal/assist"
	"vagas-go/internal/export"
	"vagas-go/internal/session"
	"vagas-go/internal/vagas"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// overrideFlags registers the per-slide edit flags on fs.
func overrideFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "Slide title")
	fs.String("category", "", "Category line, e.g. \"SETOR FINANCEIRO\"")
	fs.String("location", "", "Location badge")
	fs.String("contract", "", "Contract badge")
	fs.String("modality", "", "Modality badge")
	fs.String("tagline", "", "Custom tagline")
	fs.String("company-type", "", "multinacional, nacional or custom")
	fs.Bool("affirmative", false, "Use the affirmative layout")
	fs.String("audience", "", "Affirmative audience, e.g. \"MULHERES\"")
	fs.String("footer-url", "", "Apply link printed in the footer")
}

// overridesFromFlags returns the edits whose flags were set explicitly.
func overridesFromFlags(fs *pflag.FlagSet) vagas.Overrides {
	var o vagas.Overrides
	str := func(name string, dst **string) {
		if fs.Changed(name) {
			v, _ := fs.GetString(name)
			*dst = &v
		}
	}
	str("title", &o.Title)
	str("category", &o.Category)
	str("location", &o.Location)
	str("contract", &o.Contract)
	str("modality", &o.Modality)
	str("tagline", &o.Tagline)
	str("audience", &o.Audience)
	str("footer-url", &o.FooterURL)
	if fs.Changed("company-type") {
		v, _ := fs.GetString("company-type")
		o.CompanyType = vagas.Ptr(vagas.CompanyType(v))
	}
	if fs.Changed("affirmative") {
		v, _ := fs.GetBool("affirmative")
		o.Affirmative = &v
	}
	return o
}

func outputDir(cmd *cobra.Command, a *app.VagasApp) string {
	if dir, _ := cmd.Flags().GetString("out"); dir != "" {
		return dir
	}
	return a.Config().OutputDir
}

var cardCmd = &cobra.Command{
	Use:   "card ID",
	Short: "Export a single job slide as a PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, "Card", args)
		if err != nil {
			return err
		}
		defer a.Close()

		job, err := a.Jobs().GetJob(ctx, args[0])
		if err != nil {
			return run(a, err)
		}

		var overrides vagas.Overrides
		if suggest, _ := cmd.Flags().GetBool("suggest"); suggest {
			if a.Assistant() == nil {
				return run(a, assist.ErrDisabled)
			}
			if overrides, err = a.Assistant().Suggest(ctx, job.Headline()); err != nil {
				return run(a, err)
			}
		}
		overrides = overrides.Merge(overridesFromFlags(cmd.Flags()))

		photo, _ := cmd.Flags().GetString("photo")
		slide := vagas.JobSlide(*job, photo)
		slide.Overrides = overrides
		if slide.PhotoURL == "" {
			slide.PhotoURL = a.Picker().PickFor(slide, a.LibraryImages(ctx))
		}

		art, err := a.ExportCard(ctx, slide)
		if err != nil {
			return run(a, err)
		}
		path, err := art.Save(outputDir(cmd, a))
		if err != nil {
			return run(a, err)
		}
		fmt.Printf("Saved %s\n", path)
		return nil
	},
}

var carouselCmd = &cobra.Command{
	Use:   "carousel [ID...]",
	Short: "Export a carousel as a ZIP of PNGs (Instagram) or a PDF (LinkedIn)",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionPath, _ := cmd.Flags().GetString("session")
		if sessionPath == "" && len(args) == 0 {
			return errors.New("give job IDs or --session")
		}
		if sessionPath != "" && len(args) > 0 {
			return errors.New("job IDs and --session are mutually exclusive")
		}

		sess := &session.Session{}
		if sessionPath != "" {
			var err error
			if sess, err = session.Load(sessionPath); err != nil {
				return err
			}
		} else {
			for _, id := range args {
				sess.Jobs = append(sess.Jobs, session.Job{ID: id})
			}
		}
		if cmd.Flags().Changed("format") {
			sess.Format, _ = cmd.Flags().GetString("format")
		}
		if cmd.Flags().Changed("name") {
			sess.Name, _ = cmd.Flags().GetString("name")
		}
		format, err := export.ParseFormat(sess.Format)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, "Carousel", args)
		if err != nil {
			return err
		}
		defer a.Close()

		if sess.Name == "" {
			sess.Name = a.Config().Brand.CampaignName
		}
		slides, err := sess.Slides(ctx, a.Jobs(), a.Picker(), a.LibraryImages(ctx))
		if err != nil {
			return run(a, err)
		}

		art, err := a.Export(ctx, slides, format, sess.Name)
		if err != nil {
			return run(a, err)
		}
		path, err := art.Save(outputDir(cmd, a))
		if err != nil {
			return run(a, err)
		}
		fmt.Printf("Saved %s (%d slides, %d jobs)\n", path, art.Images, art.JobSlides)
		if skipped := len(slides) - art.Images; skipped > 0 {
			fmt.Printf("Skipped %d slide(s), see the log for details\n", skipped)
		}
		return nil
	},
}

func init() {
	overrideFlags(cardCmd.Flags())
	cardCmd.Flags().String("photo", "", "Photo URL or path (picked from the library when empty)")
	cardCmd.Flags().Bool("suggest", false, "Fill tagline, category and badges with AI suggestions")
	cardCmd.Flags().StringP("out", "o", "", "Output directory (default: output_dir)")

	carouselCmd.Flags().StringP("session", "s", "", "Session file (YAML or JSON)")
	carouselCmd.Flags().StringP("format", "f", "zip", "zip (Instagram) or pdf (LinkedIn)")
	carouselCmd.Flags().StringP("name", "n", "", "Campaign name used as file name")
	carouselCmd.Flags().StringP("out", "o", "", "Output directory (default: output_dir)")

	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(carouselCmd)
}
