package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestMetricHelpDescription(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewWithRegistry(registry, zap.NewNop())

	// Vectors only show up in Gather once a label set has been observed
	m.RecordHTTPRequest("GET", "/api/comments/posts/:postId/tree", 200, time.Millisecond)
	m.RecordExternalAPICall("/api/v1/comments/posts/1/tree", "GET", 502, time.Millisecond, errors.New("bad gateway"))
	m.IncrementCommentCreated()
	m.IncrementCommentEdited()
	m.IncrementCommentDeleted()
	m.IncrementCommentRestored()
	m.RecordRefresh("tree", nil)
	m.IncrementStaleResponse()
	m.IncrementLocalRejection("validation")
	m.RecordCacheLookup(true)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metricFamilies) < 13 {
		t.Errorf("expected every metric to be gathered, got %d families", len(metricFamilies))
	}

	for _, mf := range metricFamilies {
		name := mf.GetName()
		help := mf.GetHelp()

		if len(strings.TrimSpace(help)) == 0 {
			t.Errorf("Metric '%s' has an empty help description", name)
		}
		if !strings.HasPrefix(name, namespace+"_") {
			t.Errorf("Metric '%s' is missing the %s namespace", name, namespace)
		}
	}
}
