package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	// requests without a body, GETs mostly, carry no GetBody
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	buf, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(buf)
}

// formatHttpMessage renders a request and its response as one plain text
// transcript. Headers are sorted so transcripts diff cleanly between runs.
func formatHttpMessage(res *resty.Response) string {
	responseUrl := res.Request.URL
	redirected, err := res.RawResponse.Location()
	if err == nil {
		responseUrl = redirected.String()
	}

	var out strings.Builder
	out.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	writeHeaders(&out, res.Request.RawRequest.Header)
	out.WriteString("\n")
	out.WriteString(requestBody(res.Request.RawRequest))
	out.WriteString("\n\n---- RESPONSE ----\n\n")
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), responseUrl)
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())
	return out.String()
}
