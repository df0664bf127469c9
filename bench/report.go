package bench

import (
	"io"
	"time"

	"github.com/goccy/go-json"
)

// Result is the outcome of one method on one dataset.
type Result struct {
	Method          string        `json:"method"`
	Lossless        bool          `json:"lossless"`
	OriginalBytes   int           `json:"original_bytes"`
	CompressedBytes int           `json:"compressed_bytes"`
	Ratio           float64       `json:"compression_ratio"`
	EncodeTime      time.Duration `json:"encode_ns"`
	DecodeTime      time.Duration `json:"decode_ns"`
	AccuracyLoss    float64       `json:"accuracy_loss_pct"`
	MaxAbsError     float64       `json:"max_abs_error"`
	Error           string        `json:"error,omitempty"`
}

// Failed reports whether the method returned an error.
func (r Result) Failed() bool { return r.Error != "" }

// DatasetReport holds every method's result on one dataset.
type DatasetReport struct {
	Name                  string   `json:"name"`
	Label                 string   `json:"label"`
	N                     int      `json:"n"`
	Dim                   int      `json:"dim"`
	ConsecutiveSimilarity float64  `json:"consecutive_similarity"`
	Results               []Result `json:"results"`
	Verdict               Verdict  `json:"verdict"`
	Best                  string   `json:"best_method,omitempty"`
	BestLossless          string   `json:"best_lossless_method,omitempty"`
}

// Result returns the result of method, if present.
func (d *DatasetReport) Result(method string) (Result, bool) {
	for _, r := range d.Results {
		if r.Method == method {
			return r, true
		}
	}
	return Result{}, false
}

// Report is the outcome of a Runner.Run.
type Report struct {
	StartedAt   time.Time       `json:"started_at"`
	Duration    time.Duration   `json:"duration_ns"`
	Seed        int64           `json:"seed"`
	Backend     string          `json:"backend"`
	Environment Environment     `json:"environment"`
	Datasets    []DatasetReport `json:"datasets"`
}

// MarshalIndent encodes the report as indented JSON.
func (r *Report) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteJSON writes the report as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r *Report) error {
	b, err := r.MarshalIndent()
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
