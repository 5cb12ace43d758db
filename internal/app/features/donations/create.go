package donations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	requeststore "github.com/dalemusser/foodbridge/internal/app/store/requests"
	userstore "github.com/dalemusser/foodbridge/internal/app/store/users"
	"github.com/dalemusser/foodbridge/internal/app/system/ledger"
	"github.com/dalemusser/foodbridge/internal/app/system/metrics"
	"github.com/dalemusser/foodbridge/internal/app/system/timeouts"
	"github.com/dalemusser/foodbridge/internal/app/system/txn"
	"github.com/dalemusser/foodbridge/internal/app/system/webjson"
	"github.com/dalemusser/foodbridge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleCreate processes POST /donations.
//
// All validation and the picture upload happen before any database write.
// When the donation is paired with a request, the request's quantity is
// committed first and the donation insert second, inside a transaction
// where the deployment supports one; if the insert fails after the
// request write, the deducted quantity is restored and the failure is
// surfaced loudly rather than leaving the pair inconsistent.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var in createInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		webjson.Error(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if in.Quantity <= 0 {
		webjson.Error(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if (in.Lat == nil) != (in.Lng == nil) {
		webjson.Error(w, http.StatusBadRequest, "lat and lng must be supplied together")
		return
	}

	var receiverID *primitive.ObjectID
	if in.IsOrganization {
		oid, err := primitive.ObjectIDFromHex(in.OrgID)
		if err != nil {
			webjson.Error(w, http.StatusBadRequest, "invalid org_id")
			return
		}
		receiverID = &oid
	} else if in.ReceiverID != "" {
		rid, err := primitive.ObjectIDFromHex(in.ReceiverID)
		if err != nil {
			webjson.Error(w, http.StatusBadRequest, "invalid receiver_id")
			return
		}
		receiverID = &rid
	}

	var requestID *primitive.ObjectID
	if !in.IsOrganization && in.RequestID != "" {
		qid, err := primitive.ObjectIDFromHex(in.RequestID)
		if err != nil {
			webjson.Error(w, http.StatusBadRequest, "invalid request_id")
			return
		}
		requestID = &qid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var pictureRef string
	if in.Picture != "" {
		ref, err := h.Uploads.Put(ctx, in.Picture)
		if err != nil {
			h.Log.Warn("donation picture upload failed", zap.Error(err))
			webjson.Error(w, http.StatusBadGateway, "picture upload failed")
			return
		}
		pictureRef = ref
	}

	d := models.Donation{
		DonorID:       actor.ID,
		ReceiverID:    receiverID,
		RequestID:     requestID,
		Quantity:      in.Quantity,
		ShelfLife:     in.ShelfLife,
		PictureRef:    pictureRef,
		NeedVolunteer: true,
	}
	if in.Lat != nil {
		d.Location = &models.Location{
			Point:    models.NewGeoPoint(*in.Lat, *in.Lng),
			Landmark: in.Landmark,
		}
	}

	// A donor who is also a volunteer handles their own delivery.
	if donor, err := h.Users.GetByID(ctx, actor.ID); err == nil && donor.Role == models.RoleVolunteer {
		v := actor.ID
		d.VolunteerID = &v
	} else if err != nil && !errors.Is(err, userstore.ErrNotFound) {
		h.writeStoreError(w, err)
		return
	}

	var created models.Donation
	var pairedRequest *models.Request

	if requestID == nil {
		var err error
		created, err = h.Donations.Create(ctx, d)
		if err != nil {
			h.writeStoreError(w, err)
			return
		}
	} else {
		err := txn.WithTransaction(ctx, h.Client, func(ctx context.Context) error {
			req, applied, err := h.Requests.ApplyDonation(ctx, *requestID, in.Quantity)
			if err != nil {
				return err
			}
			pairedRequest = req

			created, err = h.Donations.Create(ctx, d)
			if err != nil {
				// Without transaction support the request write has already
				// committed; give the quantity back so the pair stays
				// consistent, and scream if even that fails.
				if rerr := h.Requests.Restore(ctx, *requestID, applied); rerr != nil {
					h.Log.Error("donation insert failed after request write; compensation also failed, manual reconciliation required",
						zap.String("request_id", requestID.Hex()),
						zap.Int("applied_quantity", applied),
						zap.NamedError("insert_error", err),
						zap.NamedError("restore_error", rerr))
				}
				return err
			}
			return nil
		})
		if err != nil {
			switch {
			case errors.Is(err, ledger.ErrInvalidQuantity):
				webjson.Error(w, http.StatusBadRequest, "invalid quantity")
			case errors.Is(err, requeststore.ErrConflict):
				webjson.Error(w, http.StatusConflict, "request is being updated concurrently, retry")
			default:
				h.writeStoreError(w, err)
			}
			return
		}
		if !pairedRequest.IsActive {
			metrics.RequestsClosed.Inc()
		}
	}

	metrics.DonationsCreated.Inc()
	h.Log.Info("donation created",
		zap.String("donation_id", created.ID.Hex()),
		zap.String("donor_id", actor.ID.Hex()),
		zap.Int("quantity", created.Quantity))

	webjson.Write(w, http.StatusCreated, map[string]any{
		"donation": created,
		"request":  pairedRequest,
	})
}
