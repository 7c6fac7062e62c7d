package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/bspdungeon/internal/bsp"
	"github.com/lawnchairsociety/bspdungeon/internal/config"
	"github.com/lawnchairsociety/bspdungeon/internal/geom"
)

// maxRequestArea bounds the area a single request may ask for.
const maxRequestArea = 512 * 512

var ErrBadRequest = errors.New("server: bad request")

// generationFor returns the configured generation parameters with any
// overrides from the query string applied and the seed resolved.
// Recognised parameters: width, height, min_width, min_height, seed.
// Requests that could produce more than maxRooms rooms are refused; 0 means
// no cap.
func generationFor(base config.GenerationConfig, maxRooms int, r *http.Request) (config.GenerationConfig, error) {
	gen := base
	q := r.URL.Query()

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &gen.Width},
		{"height", &gen.Height},
		{"min_width", &gen.MinWidth},
		{"min_height", &gen.MinHeight},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return gen, fmt.Errorf("%w: %s=%q is not an integer", ErrBadRequest, p.name, v)
		}
		*p.dst = n
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return gen, fmt.Errorf("%w: seed=%q is not an integer", ErrBadRequest, v)
		}
		gen.Seed = seed
	}

	if gen.Width > maxRequestArea || gen.Height > maxRequestArea ||
		(gen.Width > 0 && gen.Height > 0 && gen.Width*gen.Height > maxRequestArea) {
		return gen, fmt.Errorf("%w: %dx%d exceeds the maximum area of %d cells",
			ErrBadRequest, gen.Width, gen.Height, maxRequestArea)
	}

	if rooms := maxRoomCount(gen); maxRooms > 0 && rooms > maxRooms {
		return gen, fmt.Errorf("%w: %dx%d with minimum room %dx%d allows up to %d rooms, limit is %d",
			ErrBadRequest, gen.Width, gen.Height, gen.MinWidth, gen.MinHeight, rooms, maxRooms)
	}

	gen.Seed = gen.ResolveSeed()
	return gen, nil
}

// maxRoomCount bounds the rooms a layout for gen can have. Every room is at
// least the minimum on each axis the bounds can be cut along, so at most
// width/minWidth rooms fit across and height/minHeight down.
func maxRoomCount(gen config.GenerationConfig) int {
	if gen.Width <= 0 || gen.Height <= 0 {
		return 0
	}
	if gen.MinWidth <= 0 || gen.MinHeight <= 0 {
		return 1
	}
	return max(1, gen.Width/gen.MinWidth) * max(1, gen.Height/gen.MinHeight)
}

// generate runs the generator for gen with a random source seeded from gen.Seed.
func generate(gen config.GenerationConfig) (*bsp.Layout, error) {
	bounds := geom.NewRect(0, 0, gen.Width, gen.Height)
	return bsp.Generate(bounds, gen.MinWidth, gen.MinHeight, bsp.NewRandomSource(gen.Seed))
}

// statusFor maps a request or generation error to an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, ErrBadRequest) || errors.Is(err, bsp.ErrInvalidBounds) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// getRealIP extracts the real client IP from an HTTP request.
// It checks X-Forwarded-For header first (for reverse proxy setups),
// then X-Real-IP, then falls back to the direct remote address.
func getRealIP(r *http.Request) string {
	// "client, proxy1, proxy2": the first entry is the original client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return extractIP(r.RemoteAddr)
}
