package main

import (
	"fmt"

	"vagas-go/internal/compose"
	"vagas-go/internal/vagas"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse open job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs matching the filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria := vagas.FilterState{}
		criteria.Keyword, _ = cmd.Flags().GetString("keyword")
		criteria.Location, _ = cmd.Flags().GetString("location")
		criteria.JobCode, _ = cmd.Flags().GetString("code")
		criteria.SpecificDate, _ = cmd.Flags().GetString("date")
		page, _ := cmd.Flags().GetInt("page")

		a, err := newApp(cmd.Context(), "ListJobs", args)
		if err != nil {
			return err
		}
		defer a.Close()

		jobs, err := a.Jobs().ListJobs(cmd.Context())
		if err != nil {
			return run(a, err)
		}

		w := vagas.NewWindow(jobs)
		w.SetCriteria(criteria)
		for i := 1; i < page; i++ {
			w.LoadMore()
		}

		visible := w.Visible()
		if len(visible) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}
		for _, j := range visible {
			fmt.Printf("%-8s  %-10s  %-45s  %s\n", j.ID, j.PublishedDate(), j.Title, vagas.LocationLabel(j))
		}
		fmt.Printf("\nShowing %d of %d", len(visible), w.Total())
		if criteria.ActiveCount() > 0 {
			fmt.Printf(" (%d filters)", criteria.ActiveCount())
		}
		if w.HasMore() {
			fmt.Printf(", --page %d for more", page+1)
		}
		fmt.Println()
		return nil
	},
}

var jobsLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the locations jobs can be filtered by",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListLocations", args)
		if err != nil {
			return err
		}
		defer a.Close()

		jobs, err := a.Jobs().ListJobs(cmd.Context())
		if err != nil {
			return run(a, err)
		}
		for _, l := range vagas.Locations(jobs) {
			fmt.Println(l)
		}
		return nil
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a job and how its slide will read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ShowJob", args)
		if err != nil {
			return err
		}
		defer a.Close()

		job, err := a.Jobs().GetJob(cmd.Context(), args[0])
		if err != nil {
			return run(a, err)
		}

		s, err := compose.Resolve(vagas.JobSlide(*job, ""), compose.Brand{FooterURL: a.Config().Brand.FooterURL})
		if err != nil {
			return run(a, err)
		}
		fmt.Printf("ID:         %s\n", job.ID)
		fmt.Printf("Title:      %s\n", job.Title)
		fmt.Printf("Published:  %s\n", job.PublishedDate())
		fmt.Printf("Apply:      %s\n", job.ApplyURL)
		fmt.Println()
		fmt.Printf("Slide title:    %s (%dpx)\n", s.Title, s.TitleFontSize)
		fmt.Printf("Slide category: %s\n", s.Category)
		fmt.Printf("Tagline:        %s\n", s.Tagline)
		for _, b := range s.Badges {
			fmt.Printf("Badge:          %s\n", b.Text)
		}
		fmt.Printf("Footer:         %s %s\n", s.FooterLead, s.FooterURL)
		return nil
	},
}

func init() {
	jobsListCmd.Flags().String("keyword", "", "Substring of the title")
	jobsListCmd.Flags().String("location", "", "Location label (see 'vagas jobs locations')")
	jobsListCmd.Flags().String("code", "", "Substring of the job code")
	jobsListCmd.Flags().String("date", "", "Publish date, YYYY-MM-DD")
	jobsListCmd.Flags().IntP("page", "p", 1, "Number of pages to show")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsLocationsCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	rootCmd.AddCommand(jobsCmd)
}
