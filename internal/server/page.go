package server

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en" data-theme="dark">
<head>
	<meta charset="utf-8">
	<title>Live Telemetry</title>
	<script src="https://unpkg.com/htmx.org@1.9.12"></script>
	<script src="https://unpkg.com/htmx-ext-sse@2.2.1/sse.js"></script>
	<script src="https://cdn.tailwindcss.com"></script>
	<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/daisyui@4.11.1/dist/full.min.css">
	<script>
		document.addEventListener('htmx:afterProcessNode', (evt) => {
			const el = document.getElementById({{.ContainerID}});
			if (!el) return;
			if (el.contains(evt.target)) {
				try { htmx.process(el); } catch (e) { console.warn('HTMX processing error:', e); }
				el.scrollTop = el.scrollHeight;
			}
		});
		document.addEventListener('htmx:sseError', (evt) => {
			console.warn('SSE connection error:', evt.detail);
		});
	</script>
</head>
<body class="bg-base-200 p-6">
	<h2 class="text-xl font-bold mb-4">Live OpenTelemetry Traces</h2>
	<div hx-ext="sse"
		sse-connect="/telemetry"
		sse-swap="{{.Event}}"
		hx-swap="beforeend"
		id="{{.ContainerID}}"
		class="h-[70vh] overflow-y-auto p-4 bg-base-300 rounded-lg border"></div>
</body>
</html>
`))

// handleIndex serves the demo page embedding the telemetry container.
func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := indexTemplate.Execute(c.Writer, map[string]string{
		"ContainerID": s.processor.ContainerID(),
		"Event":       TelemetryEvent,
	})
	if err != nil {
		s.logger.Error("failed to render index page")
	}
}
