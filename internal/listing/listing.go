package listing

import (
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"gitlab.com/tachyons/filedrop/internal/httperrors"
	"gitlab.com/tachyons/filedrop/internal/logging"
	"gitlab.com/tachyons/filedrop/internal/upload"
	"gitlab.com/tachyons/filedrop/metrics"
)

const separator = ","

// Names returns the entry names of dir in descending lexicographic order.
// Uploads that are still being written are left out.
func Names(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdirnames(-1)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, name := range entries {
		if !strings.HasPrefix(name, upload.TempFilePrefix) {
			names = append(names, name)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	return names, nil
}

// Handler responds with the names of the entries of dir joined by commas.
// Names holding a comma are not escaped.
func Handler(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		names, err := Names(dir)
		if err != nil {
			logging.LogRequest(r).WithError(err).Error("could not list data directory")
			httperrors.Serve500(w, err.Error())
			return
		}

		metrics.ListedFiles.Set(float64(len(names)))

		// a nil value keeps net/http from sniffing a content type
		w.Header()["Content-Type"] = nil
		io.WriteString(w, strings.Join(names, separator))
	})
}
