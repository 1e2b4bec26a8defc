package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"

	"github.com/samirrijal/siara/internal/pkg/metrics"
)

// ReportsFeedHandler returns every lost and found posting as map markers.
// Postings without coordinates are included with null lat/lon; the page
// skips them.
func ReportsFeedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if deps.CollaboratorTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.CollaboratorTimeout)
			defer cancel()
		}

		markers, err := deps.Reports.Markers(ctx)
		if err != nil {
			metrics.FeedErrors.Inc()
			LoggerFromCtx(c.UserContext()).Error("report feed failed", "error", err)
			return errInternal(c, err.Error())
		}
		return c.JSON(markers)
	}
}

// PickHandler records a coordinate clicked on the map page.
func PickHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, lon, err := parsePick(c.Body())
		if err != nil {
			metrics.PicksTotal.WithLabelValues("rejected").Inc()
			LoggerFromCtx(c.UserContext()).Warn("pick rejected", "error", err)
			return errBadRequest(c, err.Error())
		}

		deps.Picks.Set(lat, lon)
		metrics.PicksTotal.WithLabelValues("accepted").Inc()
		LoggerFromCtx(c.UserContext()).Info("coordinate picked", "lat", lat, "lon", lon)

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString("OK")
	}
}

// NotFoundHandler terminates the chain for anything no route served.
func NotFoundHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return errNotFound(c, "not found")
	}
}

// parsePick extracts lat and lon from a JSON object body. Each may be a JSON
// number or a string holding a decimal number. When a key repeats, the last
// occurrence wins. No range check is applied: the map can hand out
// longitudes outside [-180, 180] after wrapping, and the form normalizes
// them when the value is pulled.
func parsePick(body []byte) (lat, lon float64, err error) {
	if !gjson.ValidBytes(body) {
		return 0, 0, errors.New("body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return 0, 0, errors.New("body must be a JSON object")
	}

	var latV, lonV gjson.Result
	root.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "lat":
			latV = value
		case "lon":
			lonV = value
		}
		return true
	})

	if lat, err = coordinate(latV, "lat"); err != nil {
		return 0, 0, err
	}
	if lon, err = coordinate(lonV, "lon"); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func coordinate(v gjson.Result, name string) (float64, error) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		// Decimal notation only; ParseFloat would also take hex floats.
		if strings.ContainsAny(s, "xX_") {
			return 0, fmt.Errorf("%s is not a number: %q", name, v.Str)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %q", name, v.Str)
		}
		f = parsed
	case gjson.Null:
		return 0, fmt.Errorf("lat/lon missing: %s", name)
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be finite", name)
	}
	return f, nil
}
