package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/realtime"
)

// EventsHandler streams live events to the authenticated user over
// Server-Sent Events. One stream per user; opening a second one closes
// the first. Missed events are harmless because every notification also
// lands as a row the client can re-fetch.
type EventsHandler struct {
	Registry realtime.Registry
}

func NewEventsHandler(reg realtime.Registry) *EventsHandler {
	return &EventsHandler{Registry: reg}
}

// Stream subscribes the caller and writes events until the client
// disconnects or the channel is closed by a replacing connection.
func (h *EventsHandler) Stream(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	ch := make(chan realtime.Event, 16)
	h.Registry.Register(uid, ch)
	defer h.Registry.Unregister(uid, ch)

	fmt.Fprintf(res, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-ch:
			if !open {
				return nil
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Name, payload)
			flusher.Flush()
		}
	}
}
