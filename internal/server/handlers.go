package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"vagas-go/internal/caption"
	"vagas-go/internal/export"
	"vagas-go/internal/session"
	"vagas-go/internal/vagas"
)

func (s *Server) status(c *fiber.Ctx) error {
	out := fiber.Map{"ok": true}
	if s.deps.Status != nil {
		for k, v := range s.deps.Status() {
			out[k] = v
		}
	}
	return c.JSON(out)
}

// listJobs filters the directory. page and limit slice the filtered list;
// without limit the first page of vagas.PageSize jobs is returned.
func (s *Server) listJobs(c *fiber.Ctx) error {
	jobs, err := s.deps.Jobs.ListJobs(c.UserContext())
	if err != nil {
		return err
	}

	criteria := vagas.FilterState{
		Keyword:      c.Query("keyword"),
		Location:     c.Query("location"),
		JobCode:      c.Query("code"),
		SpecificDate: c.Query("date"),
	}
	filtered := vagas.Filter(jobs, criteria)

	limit := c.QueryInt("limit", vagas.PageSize)
	page := c.QueryInt("page", 1)
	if limit <= 0 || page <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "limit and page must be positive")
	}
	start := min((page-1)*limit, len(filtered))
	end := min(start+limit, len(filtered))

	return c.JSON(fiber.Map{
		"jobs":    filtered[start:end],
		"total":   len(filtered),
		"page":    page,
		"hasMore": end < len(filtered),
	})
}

func (s *Server) listLocations(c *fiber.Ctx) error {
	jobs, err := s.deps.Jobs.ListJobs(c.UserContext())
	if err != nil {
		return err
	}
	locations := vagas.Locations(jobs)
	if locations == nil {
		locations = []string{}
	}
	return c.JSON(fiber.Map{"locations": locations})
}

func (s *Server) findJob(c *fiber.Ctx) (*vagas.JobPosting, error) {
	job, err := s.deps.Jobs.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %s: %w", c.Params("id"), vagas.ErrNotFound)
	}
	return job, nil
}

func (s *Server) getJob(c *fiber.Ctx) error {
	job, err := s.findJob(c)
	if err != nil {
		return err
	}
	return c.JSON(job)
}

func (s *Server) jobCaption(c *fiber.Ctx) error {
	job, err := s.findJob(c)
	if err != nil {
		return err
	}
	mode := caption.Mode(c.Query("audience"))
	index := c.QueryInt("index", 0)
	return c.JSON(fiber.Map{
		"caption": s.deps.Captions.Caption(*job, index, mode),
		"index":   index,
		"pool":    caption.Pool(mode),
	})
}

type carouselCaptionsRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) carouselCaptions(c *fiber.Ctx) error {
	var req carouselCaptionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if len(req.IDs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "ids is required")
	}

	jobs := make([]vagas.JobPosting, 0, len(req.IDs))
	for _, id := range req.IDs {
		job, err := s.deps.Jobs.GetJob(c.UserContext(), id)
		if err != nil {
			return err
		}
		if job == nil {
			return fmt.Errorf("job %s: %w", id, vagas.ErrNotFound)
		}
		jobs = append(jobs, *job)
	}
	return c.JSON(fiber.Map{"captions": caption.CarouselCaptions(jobs)})
}

func (s *Server) stats(c *fiber.Ctx) error {
	st, err := s.deps.Stats.Read(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"count":      st.Count,
		"hoursSaved": st.HoursSaved,
		"duration":   st.Duration(),
	})
}

func (s *Server) listLibrary(c *fiber.Ctx) error {
	images, err := s.deps.Library.List(c.UserContext())
	if err != nil {
		return err
	}

	if raw := c.Query("tags"); raw != "" {
		tags, err := vagas.ParseTags(strings.Split(raw, ","))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		images = vagas.FilterByTags(images, tags)
	}
	if images == nil {
		images = []vagas.LibraryImage{}
	}
	return c.JSON(fiber.Map{"images": images})
}

type cardRequest struct {
	Photo     string          `json:"photo"`
	Overrides vagas.Overrides `json:"overrides"`
}

func (s *Server) exportCard(c *fiber.Ctx) error {
	job, err := s.findJob(c)
	if err != nil {
		return err
	}

	var req cardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
	}

	images, err := s.libraryImages(c)
	if err != nil {
		return err
	}
	if err := s.checkPhoto(req.Photo, images); err != nil {
		return err
	}

	slide := vagas.JobSlide(*job, req.Photo)
	slide.Overrides = req.Overrides
	if slide.PhotoURL == "" {
		slide.PhotoURL = s.deps.Picker.PickFor(slide, images)
	}

	art, err := s.deps.Exporter.ExportCard(c.UserContext(), slide)
	if err != nil {
		return err
	}
	return sendArtifact(c, art)
}

func (s *Server) exportCarousel(c *fiber.Ctx) error {
	sess, err := session.Parse(c.Body())
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(sess.Format)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	images, err := s.libraryImages(c)
	if err != nil {
		return err
	}
	for _, j := range sess.Jobs {
		if err := s.checkPhoto(j.Photo, images); err != nil {
			return err
		}
	}
	slides, err := sess.Slides(c.UserContext(), s.deps.Jobs, s.deps.Picker, images)
	if err != nil {
		return err
	}

	art, err := s.deps.Exporter.Export(c.UserContext(), slides, format, sess.Name)
	if err != nil {
		return err
	}
	return sendArtifact(c, art)
}

// libraryImages lists the library, treating a missing library as empty so
// slides fall back to stock photos.
func (s *Server) libraryImages(c *fiber.Ctx) ([]vagas.LibraryImage, error) {
	if s.deps.Library == nil {
		return nil, nil
	}
	images, err := s.deps.Library.List(c.UserContext())
	if err != nil {
		s.deps.Logger.Warn("library unavailable, using stock photos", "error", err)
		return nil, nil
	}
	return images, nil
}

func sendArtifact(c *fiber.Ctx, art *export.Artifact) error {
	c.Set(fiber.HeaderContentType, art.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+strings.ReplaceAll(art.Name, `"`, "")+`"`)
	c.Set("X-Export-Images", strconv.Itoa(art.Images))
	c.Set("X-Export-Jobs", strconv.Itoa(art.JobSlides))
	return c.Send(art.Data)
}
