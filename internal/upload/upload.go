package upload

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/tachyons/filedrop/internal/httperrors"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/metrics"
)

// ContentType is the only media type accepted for uploads
const ContentType = "application/octet-stream"

// TempFilePrefix starts the name of every upload still being written
const TempFilePrefix = ".upload-"

var (
	errUnsupportedContentType = fmt.Errorf("uploads must be sent as %s", ContentType)
	errMissingFileName        = errors.New("upload path must end with a file name")
	errInvalidFileName        = errors.New("upload file name must not contain an encoded slash")
	errUploadTooLarge         = errors.New("upload exceeds the maximum allowed size")
)

// Receiver stores raw request bodies as files in a data directory
type Receiver struct {
	dataDir       string
	maxSize       int64
	writeFile     func(name string, data []byte, perm os.FileMode) error
	uploadsMetric *prometheus.CounterVec
	sizeMetric    prometheus.Histogram
}

// Option configures a Receiver
type Option func(*Receiver)

// New returns a Receiver writing into dataDir
func New(dataDir string, opts ...Option) *Receiver {
	rc := &Receiver{
		dataDir:       dataDir,
		writeFile:     ioutil.WriteFile,
		uploadsMetric: metrics.Uploads,
		sizeMetric:    metrics.UploadSize,
	}

	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// WithMaxSize limits the size of an upload in bytes, 0 means no limit
func WithMaxSize(maxSize int64) Option {
	return func(rc *Receiver) {
		rc.maxSize = maxSize
	}
}

// FileName returns the unescaped last segment of an escaped URL path.
// A segment holding an encoded slash is rejected instead of being split.
func FileName(escapedPath string) (string, error) {
	name, err := url.PathUnescape(escapedPath[strings.LastIndex(escapedPath, "/")+1:])
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", errMissingFileName
	}

	if strings.Contains(name, "/") {
		return "", errInvalidFileName
	}

	return name, nil
}

func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != ContentType {
		rc.uploadsMetric.WithLabelValues("bad_request").Inc()
		httperrors.Serve400(w, errUnsupportedContentType.Error())
		return
	}

	name, err := FileName(r.URL.EscapedPath())
	if err != nil {
		rc.uploadsMetric.WithLabelValues("bad_request").Inc()
		httperrors.Serve400(w, err.Error())
		return
	}

	data, err := rc.readBody(r)
	switch {
	case errors.Is(err, errUploadTooLarge):
		rc.uploadsMetric.WithLabelValues("too_large").Inc()
		httperrors.Serve413(w)
		return
	case err != nil:
		logging.LogRequest(r).WithError(err).Warn("could not read upload body")
		rc.uploadsMetric.WithLabelValues("bad_request").Inc()
		httperrors.Serve400(w, "could not read upload body")
		return
	}

	dest, err := rc.Store(name, data)
	if err != nil {
		rc.uploadsMetric.WithLabelValues("failed").Inc()
		httperrors.Serve500WithRequest(w, r, err.Error(), err)
		return
	}

	rc.uploadsMetric.WithLabelValues("stored").Inc()
	rc.sizeMetric.Observe(float64(len(data)))

	logging.LogRequest(r).WithField("file", dest).WithField("size", len(data)).Info("stored upload")

	w.WriteHeader(http.StatusOK)
}

// readBody accumulates the whole request body in memory
func (rc *Receiver) readBody(r *http.Request) ([]byte, error) {
	if rc.maxSize == 0 {
		return ioutil.ReadAll(r.Body)
	}

	if r.ContentLength > rc.maxSize {
		return nil, errUploadTooLarge
	}

	data, err := ioutil.ReadAll(io.LimitReader(r.Body, rc.maxSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > rc.maxSize {
		return nil, errUploadTooLarge
	}

	return data, nil
}

// Store writes data to name inside the data directory, replacing any
// existing file. The data is written to a temporary file first and renamed
// into place so concurrent uploads of the same name never leave a torn file.
// A failed write or rename removes the temporary file.
func (rc *Receiver) Store(name string, data []byte) (dest string, err error) {
	dest = filepath.Join(rc.dataDir, name)
	tmp := filepath.Join(rc.dataDir, TempFilePrefix+uuid.New().String())

	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err = rc.writeFile(tmp, data, 0644); err != nil {
		return "", err
	}

	if err = os.Rename(tmp, dest); err != nil {
		return "", err
	}

	return dest, nil
}
