package httpserver

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voxlate/voxlate/internal/adapters/openai"
	"github.com/voxlate/voxlate/internal/audio"
	"github.com/voxlate/voxlate/internal/httpserver/httputil"
	"github.com/voxlate/voxlate/internal/models"
	"github.com/voxlate/voxlate/internal/pipeline"
)

// registerRoutes wires up the public dubbing API.
func registerRoutes(app *fiber.App, deps Deps) {
	handler := &speechHandler{
		pipeline:    deps.Pipeline,
		maxUploadMB: deps.Config.Audio.MaxUploadMB,
	}
	group := app.Group("/v1")
	group.Post("/dub", handler.dub)
	group.Post("/transcriptions", handler.transcriptions)
}

type speechHandler struct {
	pipeline    *pipeline.Pipeline
	maxUploadMB int
}

func (h *speechHandler) dub(c *fiber.Ctx) error {
	payload, err := h.readAudioUpload(c)
	if err != nil {
		return writeUploadError(c, err)
	}

	opts := pipeline.RunOptions{
		SourceLanguage: strings.TrimSpace(c.FormValue("source_language")),
		TargetLanguage: strings.TrimSpace(c.FormValue("target_language")),
		Voice:          strings.TrimSpace(c.FormValue("voice")),
		Reference:      c.FormValue("reference"),
	}
	if raw := strings.TrimSpace(c.FormValue("glossary")); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			if term = strings.TrimSpace(term); term != "" {
				opts.Glossary = append(opts.Glossary, term)
			}
		}
	}

	result, err := h.pipeline.Run(c.UserContext(), payload, opts)
	if err != nil {
		return writePipelineError(c, err)
	}
	return c.JSON(dubResponse{
		Result:      result,
		DubbedAudio: base64.StdEncoding.EncodeToString(result.DubbedAudio),
	})
}

type dubResponse struct {
	*pipeline.Result
	DubbedAudio string `json:"dubbed_audio"`
}

func (h *speechHandler) transcriptions(c *fiber.Ctx) error {
	payload, err := h.readAudioUpload(c)
	if err != nil {
		return writeUploadError(c, err)
	}
	text, usage, err := h.pipeline.Transcribe(c.UserContext(), payload)
	if err != nil {
		return writePipelineError(c, err)
	}
	return c.JSON(fiber.Map{"text": text, "usage": usage})
}

func (h *speechHandler) readAudioUpload(c *fiber.Ctx) (models.AudioPayload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusBadRequest, "multipart form required")
	}
	fileHeaders := form.File["file"]
	if len(fileHeaders) == 0 {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	fh := fileHeaders[0]
	if h.maxUploadMB > 0 && fh.Size > int64(h.maxUploadMB)*1024*1024 {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds %d MB limit", h.maxUploadMB))
	}
	src, err := fh.Open()
	if err != nil {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusBadRequest, "failed to open file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusBadRequest, "failed to read file")
	}
	if _, err := audio.Probe(data); err != nil {
		return models.AudioPayload{}, fiber.NewError(fiber.StatusBadRequest, "file must be a valid wav container")
	}
	return models.AudioPayload{Data: data, Format: models.AudioFormatWAV}, nil
}

func writeUploadError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return httputil.WriteError(c, fiberErr.Code, fiberErr.Message)
	}
	return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
}

func writePipelineError(c *fiber.Ctx, err error) error {
	var remoteErr *openai.RemoteError
	if errors.As(err, &remoteErr) {
		return httputil.WriteError(c, fiber.StatusBadGateway, err.Error())
	}
	if errors.Is(err, openai.ErrModalityMismatch) {
		return httputil.WriteError(c, fiber.StatusBadGateway, err.Error())
	}
	return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
}
