package cart

import (
	"encoding/json"
	"net/http"

	"shopfront/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	model *Model
}

func NewHandler(model *Model) *Handler {
	return &Handler{model: model}
}

type itemPayload struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	snap, err := h.model.Load(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, snap)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.ProductID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid productId")
		return
	}
	if err := h.model.AddItem(r.Context(), payload.ProductID); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to add item to cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": h.model.Snapshot()})
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.ProductID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid productId")
		return
	}
	if err := h.model.UpdateQuantity(r.Context(), payload.ProductID, payload.Quantity); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to update quantity")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": h.model.Snapshot()})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.ProductID <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid productId")
		return
	}
	if err := h.model.RemoveItem(r.Context(), payload.ProductID); err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to remove item from cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "cart": h.model.Snapshot()})
}
