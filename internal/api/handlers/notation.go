package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Conceptual-Machines/drumscore-api/internal/logger"
	"github.com/Conceptual-Machines/drumscore-api/internal/midiexport"
	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	"github.com/Conceptual-Machines/drumscore-api/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeMusicXML = "application/vnd.recordare.musicxml+xml"
	contentTypeMIDI     = "audio/midi"
)

type NotationHandler struct {
	service *services.NotationService
}

func NewNotationHandler(service *services.NotationService) *NotationHandler {
	return &NotationHandler{service: service}
}

// InstrumentResponse is one row of the instrument table
type InstrumentResponse struct {
	Key string `json:"key"`
	notation.InstrumentMapping
}

// Validate reports whether an analysis document can be rendered
// POST /api/v1/notation/validate
func (h *NotationHandler) Validate(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result, err := h.service.Validate(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Render converts an analysis document to MusicXML.
// ?format=json wraps the score and render counters in a JSON object.
// POST /api/v1/notation/render
func (h *NotationHandler) Render(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	result, err := h.service.Render(c.Request.Context(), body)
	if err != nil {
		respondRenderError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, result)
		return
	}

	c.Header("X-Measures", strconv.Itoa(result.Measures))
	c.Header("X-Notes-Rendered", strconv.Itoa(result.Notes))
	c.Header("X-Events-Skipped", strconv.Itoa(len(result.Skipped)))
	c.Data(http.StatusOK, contentTypeMusicXML, []byte(result.XML))
}

// MIDI exports an analysis document as a Standard MIDI File
// POST /api/v1/notation/midi
func (h *NotationHandler) MIDI(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	data, err := h.service.ExportMIDI(c.Request.Context(), body)
	if err != nil {
		respondRenderError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="drums.mid"`)
	c.Data(http.StatusOK, contentTypeMIDI, data)
}

// Instruments lists the instrument map
// GET /api/v1/instruments
func (h *NotationHandler) Instruments(c *gin.Context) {
	keys := notation.Instruments()
	out := make([]InstrumentResponse, 0, len(keys))
	for _, key := range keys {
		mapping, _ := notation.LookupInstrument(key)
		out = append(out, InstrumentResponse{Key: key, InstrumentMapping: mapping})
	}

	c.JSON(http.StatusOK, gin.H{
		"instruments": out,
		"strict":      h.service.Options().StrictInstruments,
	})
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return body, true
}

func respondRenderError(c *gin.Context, err error) {
	var invalid *notation.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		logger.Warn("Rejected invalid analysis document", withErrorCount(logger.WithContext(c), len(invalid.Errors)))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "invalid analysis document",
			"errors": invalid.Errors,
		})
	case errors.Is(err, notation.ErrMalformedDocument),
		errors.Is(err, midiexport.ErrUnsupportedGrid),
		errors.Is(err, midiexport.ErrNegativePosition),
		errors.Is(err, midiexport.ErrUnsupportedMeter),
		errors.Is(err, midiexport.ErrPositionOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Render failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
	}
}

func withErrorCount(fields logger.Fields, n int) logger.Fields {
	fields["error_count"] = n
	return fields
}
