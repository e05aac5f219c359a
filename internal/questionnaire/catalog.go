package questionnaire

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

// catalogEnvelope is the wire shape of both the questions endpoint and
// the local snapshot file. Data is a pointer so a missing "data" field
// (malformed catalog) is distinguishable from a present-but-empty one.
type catalogEnvelope struct {
	Data *[]Question `json:"data"`
}

// Loader obtains the question catalog from the remote endpoint, falling
// back to a local snapshot file of the same shape. Fetch is best-effort
// and never returns an error: failures are logged and degrade to the
// snapshot, then to an empty result. Callers must treat an empty result
// as "cannot proceed" and surface a user-facing message.
type Loader struct {
	endpoint     string
	snapshotPath string
	client       *http.Client
}

// NewLoader creates a catalog loader with a bounded request timeout.
func NewLoader(endpoint, snapshotPath string, timeout time.Duration) *Loader {
	return &Loader{
		endpoint:     endpoint,
		snapshotPath: snapshotPath,
		client:       &http.Client{Timeout: timeout},
	}
}

// Fetch returns the full question catalog, or an empty slice when both
// the endpoint and the snapshot are unavailable.
func (l *Loader) Fetch(ctx context.Context) []Question {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		log.Printf("catalog: building request: %v", err)
		return l.fromSnapshot()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		log.Printf("catalog: fetching %s: %v", l.endpoint, err)
		return l.fromSnapshot()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Printf("catalog: %s returned %d", l.endpoint, resp.StatusCode)
		return l.fromSnapshot()
	}

	var envelope catalogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		log.Printf("catalog: decoding response: %v", err)
		return l.fromSnapshot()
	}
	if envelope.Data == nil {
		log.Printf("catalog: response missing data field")
		return l.fromSnapshot()
	}

	return *envelope.Data
}

// fromSnapshot reads the local snapshot file. Any failure yields an
// empty slice.
func (l *Loader) fromSnapshot() []Question {
	data, err := os.ReadFile(l.snapshotPath)
	if err != nil {
		log.Printf("catalog: reading snapshot %s: %v", l.snapshotPath, err)
		return nil
	}

	var envelope catalogEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Printf("catalog: parsing snapshot %s: %v", l.snapshotPath, err)
		return nil
	}
	if envelope.Data == nil {
		log.Printf("catalog: snapshot %s missing data field", l.snapshotPath)
		return nil
	}

	return *envelope.Data
}
