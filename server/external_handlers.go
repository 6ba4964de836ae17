package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ricehub/ricehub/pkg/external"
)

// externalHandler returns the cached aggregate of third-party content.
// When every upstream source is down the endpoint answers 502, never an
// empty list pretending everything is fine.
func (s *Server) externalHandler(w http.ResponseWriter, r *http.Request) {
	items, err := s.external.Items(r.Context())
	if err != nil {
		if errors.Is(err, external.ErrAllSourcesFailed) {
			s.renderError(w, r, errors.New("external sources unavailable"), http.StatusBadGateway)
			return
		}
		s.renderError(w, r, fmt.Errorf("failed to fetch external content: %w", err), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, items)
}
