package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"valorant-stats/internal/api"
	"valorant-stats/internal/config"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func serve(t *testing.T, handler fasthttp.RequestHandler) *api.AnalysisClient {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	client := api.NewAnalysisClient(&config.Config{AnalysisURL: "http://analysis.test/", AnalysisAPIKey: "secret"})
	return client.WithDialer(func(string) (net.Conn, error) { return ln.Dial() })
}

func TestUpload(t *testing.T) {
	t.Parallel()
	client := serve(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/upload" || !ctx.IsPost() {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		if string(ctx.Request.Header.Peek("Authorization")) != "secret" {
			ctx.SetStatusCode(fasthttp.StatusUnauthorized)
			return
		}
		header, err := ctx.FormFile("video")
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}
		f, _ := header.Open()
		content, _ := io.ReadAll(f)
		_ = f.Close()

		body, _ := json.Marshal(map[string]any{
			"scoreboard": map[string]any{
				"green_Jett": map[string]any{"kills": len(content), "deaths": 0, "assists": 0, "headshots": 1},
			},
		})
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	})

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	resp, err := client.Upload(ctx, "match.mp4", strings.NewReader("abc"))
	require.NoError(t, err)
	require.Contains(t, resp.Scoreboard, "green_Jett")

	entry := resp.Scoreboard["green_Jett"].(map[string]any)
	require.InDelta(t, 3.0, entry["kills"], 0)
}

func TestUploadServiceError(t *testing.T) {
	t.Parallel()
	client := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString(`{"error": "No video file provided"}`)
	})

	_, err := client.Upload(t.Context(), "match.mp4", strings.NewReader(""))
	require.ErrorIs(t, err, api.ErrAnalysisFailed)
	require.Contains(t, err.Error(), "No video file provided")
}

func TestUploadErrorField(t *testing.T) {
	t.Parallel()
	client := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"scoreboard": {}, "error": "model unavailable"}`)
	})

	_, err := client.Upload(t.Context(), "match.mp4", strings.NewReader("x"))
	require.ErrorIs(t, err, api.ErrAnalysisFailed)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	client := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"status": "ok"}`)
	})

	resp, err := client.Health(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)
}
