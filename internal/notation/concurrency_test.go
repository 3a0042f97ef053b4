package notation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestRender_ConcurrentCallsShareNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	docs := make([]*AnalysisDocument, 8)
	for i := range docs {
		docs[i] = newDoc(
			Event{Bar: i, Beat: 0, Instrument: "kick", DurationTicks: 240},
			Event{Bar: i, Beat: 1, Instrument: "snare", DurationTicks: 240},
			Event{Bar: 0, Beat: 2, Instrument: "ride", DurationTicks: 120},
		)
	}

	want := make([]string, len(docs))
	for i, doc := range docs {
		out, err := Render(doc)
		require.NoError(t, err)
		want[i] = out
	}

	got := make([]string, len(docs)*4)
	var g errgroup.Group
	for n := range got {
		g.Go(func() error {
			out, err := Render(docs[n%len(docs)])
			if err != nil {
				return fmt.Errorf("render %d: %w", n, err)
			}
			got[n] = out
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for n, out := range got {
		assert.Equal(t, want[n%len(docs)], out)
	}
}
