package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/destinations", "200"))
	RecordAPIRequest("GET", "/api/destinations", "200", 20*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/destinations", "200"))
	if after-before != 1 {
		t.Fatalf("expected one request recorded, got %v", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if testutil.ToFloat64(APIActiveRequests) != start+1 {
		t.Fatal("gauge not incremented")
	}
	TrackActiveRequest(false)
	if testutil.ToFloat64(APIActiveRequests) != start {
		t.Fatal("gauge not decremented")
	}
}
