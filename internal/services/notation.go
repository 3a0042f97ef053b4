package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/drumscore-api/internal/config"
	"github.com/Conceptual-Machines/drumscore-api/internal/logger"
	"github.com/Conceptual-Machines/drumscore-api/internal/metrics"
	"github.com/Conceptual-Machines/drumscore-api/internal/midiexport"
	"github.com/Conceptual-Machines/drumscore-api/internal/notation"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	FormatMusicXML = "musicxml"
	FormatMIDI     = "midi"
)

// NotationService validates analyses and renders them to MusicXML or MIDI.
// Rendered output is cached by request body; cached values are shared and
// must not be modified by callers.
type NotationService struct {
	opts     notation.Options
	recorder metrics.Recorder
	scores   *lru.Cache[string, *notation.Result]
	midi     *lru.Cache[string, *midiExport]
}

type midiExport struct {
	data    []byte
	notes   int
	skipped int
}

func NewNotationService(cfg *config.Config, recorder metrics.Recorder) (*NotationService, error) {
	scores, err := lru.New[string, *notation.Result](cfg.RenderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create score cache: %w", err)
	}
	midi, err := lru.New[string, *midiExport](cfg.RenderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create midi cache: %w", err)
	}
	if recorder == nil {
		recorder = metrics.Multi()
	}

	return &NotationService{
		opts:     notation.Options{StrictInstruments: cfg.StrictInstruments},
		recorder: recorder,
		scores:   scores,
		midi:     midi,
	}, nil
}

// Options returns the notation options the service was configured with
func (s *NotationService) Options() notation.Options {
	return s.opts
}

// Validate checks a raw analysis document through the same intake Render
// uses, so an OK result always renders. The error is non-nil only when the
// body is not JSON; validation defects are reported in the result.
func (s *NotationService) Validate(ctx context.Context, body []byte) (notation.ValidationResult, error) {
	result, _, err := notation.Inspect(body, s.opts)
	if err != nil {
		return notation.ValidationResult{}, err
	}

	s.recorder.RecordValidation(ctx, result.OK, len(result.Errors))
	return result, nil
}

// Render parses and renders an analysis document to MusicXML
func (s *NotationService) Render(ctx context.Context, body []byte) (*notation.Result, error) {
	start := time.Now()
	key := s.cacheKey(FormatMusicXML, body)
	if cached, ok := s.scores.Get(key); ok {
		logger.Debug("Score served from cache", logger.Fields{"notes": cached.Notes, "skipped": len(cached.Skipped)})
		s.recorder.RecordRender(ctx, FormatMusicXML, cached.Notes, len(cached.Skipped), time.Since(start), true)
		return cached, nil
	}

	doc, err := notation.Parse(body, s.opts)
	if err != nil {
		s.recorder.RecordRender(ctx, FormatMusicXML, 0, 0, time.Since(start), false)
		return nil, err
	}

	result, err := notation.RenderWithOptions(doc, s.opts)
	if err != nil {
		s.recorder.RecordRender(ctx, FormatMusicXML, 0, 0, time.Since(start), false)
		return nil, err
	}
	duration := time.Since(start)

	for _, skipped := range result.Skipped {
		logger.Warn("Dropped event with unknown instrument", logger.Fields{
			"event_index": skipped.Index,
			"bar":         skipped.Bar,
			"beat":        skipped.Beat,
			"tick":        skipped.Tick,
			"instrument":  skipped.Instrument,
		})
	}

	s.recorder.RecordRender(ctx, FormatMusicXML, result.Notes, len(result.Skipped), duration, true)
	logger.LogRenderRequest(ctx, FormatMusicXML, duration, result.Measures, result.Notes, len(result.Skipped), nil)

	s.scores.Add(key, result)
	return result, nil
}

// ExportMIDI parses an analysis document and writes it as a Standard MIDI File
func (s *NotationService) ExportMIDI(ctx context.Context, body []byte) ([]byte, error) {
	start := time.Now()
	key := s.cacheKey(FormatMIDI, body)
	if cached, ok := s.midi.Get(key); ok {
		logger.Debug("MIDI served from cache", logger.Fields{"notes": cached.notes, "skipped": cached.skipped})
		s.recorder.RecordRender(ctx, FormatMIDI, cached.notes, cached.skipped, time.Since(start), true)
		return cached.data, nil
	}

	doc, err := notation.Parse(body, s.opts)
	if err != nil {
		s.recorder.RecordRender(ctx, FormatMIDI, 0, 0, time.Since(start), false)
		return nil, err
	}

	data, err := midiexport.Bytes(doc, s.opts)
	if err != nil {
		s.recorder.RecordRender(ctx, FormatMIDI, 0, 0, time.Since(start), false)
		return nil, err
	}
	duration := time.Since(start)

	notes, skipped := countPlayable(doc)
	s.recorder.RecordRender(ctx, FormatMIDI, notes, skipped, duration, true)
	logger.LogRenderRequest(ctx, FormatMIDI, duration, 0, notes, skipped, logger.Fields{"bytes": len(data)})

	s.midi.Add(key, &midiExport{data: data, notes: notes, skipped: skipped})
	return data, nil
}

func (s *NotationService) cacheKey(format string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte(strconv.FormatBool(s.opts.StrictInstruments)))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func countPlayable(doc *notation.AnalysisDocument) (notes, skipped int) {
	for _, ev := range doc.Events {
		if _, ok := notation.LookupInstrument(ev.Instrument); ok {
			notes++
		} else {
			skipped++
		}
	}
	return notes, skipped
}
