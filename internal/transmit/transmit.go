package transmit

import (
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tachyons/filedrop/internal/config"
	"gitlab.com/tachyons/filedrop/internal/httperrors"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/internal/static"
	"gitlab.com/tachyons/filedrop/metrics"
)

// Transmitter sends files to clients. Files up to the threshold are read
// into memory and written in one go, larger ones are streamed.
type Transmitter struct {
	threshold       int64
	fileSizeMetric  prometheus.Histogram
	streamedMetric  *prometheus.CounterVec
	contentTypeFunc func(string) string
}

// Option configures a Transmitter
type Option func(*Transmitter)

// New returns a Transmitter using the default large file threshold unless
// configured otherwise
func New(opts ...Option) *Transmitter {
	t := &Transmitter{
		threshold:       config.DefaultLargeFileThreshold,
		fileSizeMetric:  metrics.ServedFileSize,
		streamedMetric:  metrics.StreamedResponses,
		contentTypeFunc: static.ContentType,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// WithThreshold sets the size in bytes above which files are streamed
func WithThreshold(threshold int64) Option {
	return func(t *Transmitter) {
		t.threshold = threshold
	}
}

// Send writes the file at path to w. path must already be resolved.
func (t *Transmitter) Send(w http.ResponseWriter, r *http.Request, path string) {
	fi, err := os.Stat(path)
	if err != nil {
		httperrors.Serve500WithRequest(w, r, "Error loading "+path, err)
		return
	}

	size := fi.Size()
	t.fileSizeMetric.Observe(float64(size))

	w.Header().Set("Content-Type", t.contentTypeFunc(path))
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))

	if size > t.threshold {
		t.stream(w, r, path, size)
		return
	}

	t.buffered(w, r, path)
}

func (t *Transmitter) buffered(w http.ResponseWriter, r *http.Request, path string) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		httperrors.Serve500WithRequest(w, r, "Error loading "+path, err)
		return
	}

	// the file may have changed since it was stat'ed
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodHead {
		w.Write(data)
	}
}

func (t *Transmitter) stream(w http.ResponseWriter, r *http.Request, path string, size int64) {
	w.Header().Set("Accept-Ranges", "bytes")

	br, ranged, err := parseRange(r.Header.Get("Range"), size)
	if err != nil {
		logging.LogRequest(r).WithError(err).WithField("range", r.Header.Get("Range")).Debug("rejecting range request")
		t.streamedMetric.WithLabelValues(strconv.Itoa(http.StatusRequestedRangeNotSatisfiable)).Inc()
		httperrors.Serve416(w)
		return
	}

	if !ranged {
		br = byteRange{from: 0, to: size - 1}
	}

	file, err := os.Open(path)
	if err != nil {
		httperrors.Serve500WithRequest(w, r, "Error loading "+path, err)
		return
	}
	defer file.Close()

	status := http.StatusOK
	if ranged {
		status = http.StatusPartialContent
		w.Header().Set("Content-Length", strconv.FormatInt(br.length(), 10))
		w.Header().Set("Content-Range", br.contentRange(size))
	}

	w.WriteHeader(status)
	t.streamedMetric.WithLabelValues(strconv.Itoa(status)).Inc()

	if r.Method == http.MethodHead {
		return
	}

	// Copy stops on the first failed write, which is how a client that went
	// away ends the stream
	if _, err := io.Copy(w, io.NewSectionReader(file, br.from, br.length())); err != nil {
		logging.LogRequest(r).WithError(err).WithField("file", path).Info("file stream interrupted")
	}
}
