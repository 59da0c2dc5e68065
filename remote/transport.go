package remote

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// TransportLogConfig describes the line written for each request.
//
// Format may reference ${time}, ${status}, ${latency}, ${method}, ${path}
// and ${error}. Headers are never logged, so bearer tokens stay out of the
// output.
type TransportLogConfig struct {
	Format string
	Output io.Writer
}

var DefaultTransportLogConfig = TransportLogConfig{
	Format: "${time} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
	Output: os.Stdout,
}

// LoggingTransport is an http.RoundTripper that logs every request it
// forwards to Next (http.DefaultTransport when nil).
type LoggingTransport struct {
	Next   http.RoundTripper
	Config TransportLogConfig
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.Next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	res, err := next.RoundTrip(req)
	latency := time.Since(start)

	status := 0
	if res != nil {
		status = res.StatusCode
	}

	var errMsg string
	if err != nil {
		errMsg = err.Error()
	}

	output := t.Config.Output
	if output == nil {
		output = os.Stdout
	}
	format := t.Config.Format
	if format == "" {
		format = DefaultTransportLogConfig.Format
	}

	replacer := strings.NewReplacer(
		"${time}", start.Format(time.DateTime),
		"${status}", strconv.Itoa(status),
		"${latency}", latency.String(),
		"${method}", req.Method,
		"${path}", req.URL.Path,
		"${error}", errMsg,
	)

	fmt.Fprint(output, replacer.Replace(format))
	return res, err
}
