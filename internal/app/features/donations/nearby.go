package donations

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/foodbridge/internal/app/system/geo"
	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
)

// HandleNearby processes GET /donations/nearby?lat=&lng=&radius=&status=.
//
// Results come back nearest first straight from the geo index. The query
// is a snapshot: callers wanting fresher results issue a new query. An
// empty list is a normal outcome.
func (h *Handler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		webjson.Error(w, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}

	radius := h.DefaultRadiusMeters
	if s := q.Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			webjson.Error(w, http.StatusBadRequest, "radius must be a positive number of meters")
			return
		}
		radius = v
	}

	status := models.StatusApproved
	if s := q.Get("status"); s != "" {
		status = models.DonationStatus(s)
		if !models.IsValidStatus(status) {
			webjson.Error(w, http.StatusBadRequest, "unknown status filter")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	point := models.NewGeoPoint(lat, lng)
	found, err := h.Donations.FindNearby(ctx, point, radius, status)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	results := make([]nearbyDonation, 0, len(found))
	for _, d := range found {
		nd := nearbyDonation{Donation: d}
		if d.Location != nil {
			nd.DistanceMeters = geo.DistanceMeters(point, d.Location.Point)
		}
		results = append(results, nd)
	}

	metrics.NearbyQueries.Inc()
	webjson.Write(w, http.StatusOK, map[string]any{"donations": results})
}
