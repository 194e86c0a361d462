package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopfront/models"
	"shopfront/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	machine *Machine
}

func NewHandler(machine *Machine) *Handler {
	return &Handler{machine: machine}
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	state := h.machine.Open(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"state":   state,
		"cities":  h.machine.Cities(),
	})
}

func (h *Handler) Close(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.machine.Close()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"open":      h.machine.IsOpen(),
		"state":     h.machine.State(),
		"cities":    h.machine.Cities(),
		"locations": h.machine.Locations(),
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !h.machine.IsOpen() {
		utils.RespondWithError(w, http.StatusConflict, ErrNotOpen.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.machine.Summary())
}

type stepPayload struct {
	Step string `json:"step"`
}

func (h *Handler) Advance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload stepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	step, ok := parseStep(payload.Step)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown step")
		return
	}
	if err := h.machine.Advance(r.Context(), step); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"state":     h.machine.State(),
		"locations": h.machine.Locations(),
	})
}

func (h *Handler) Retreat(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload stepPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	step, ok := parseStep(payload.Step)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown step")
		return
	}
	if err := h.machine.Retreat(step); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "state": h.machine.State()})
}

func (h *Handler) SetCustomer(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload models.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.machine.SetCustomer(payload.Name, payload.Phone); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func (h *Handler) SetDeliveryType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	typ := models.DeliveryType(payload.Type)
	if typ != models.DeliveryPickup && typ != models.DeliveryCourier {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown delivery type")
		return
	}
	if err := h.machine.SetDeliveryType(r.Context(), typ); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "state": h.machine.State()})
}

func (h *Handler) SelectCity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.City == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "City is required")
		return
	}
	if err := h.machine.SelectCity(r.Context(), payload.City); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "state": h.machine.State()})
}

func (h *Handler) SetLocation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		PickupLocationID string `json:"pickupLocationId"`
		Address          string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	var err error
	switch {
	case payload.PickupLocationID != "":
		err = h.machine.SetPickupLocation(payload.PickupLocationID)
	case payload.Address != "":
		err = h.machine.SetDeliveryAddress(payload.Address)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "pickupLocationId or address is required")
		return
	}
	if err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "state": h.machine.State()})
}

func (h *Handler) SetUseBalance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		UseBalance bool `json:"useBalance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.machine.SetUseBalance(payload.UseBalance); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.machine.Summary())
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.machine.Submit(r.Context()); err != nil {
		respondMachineError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func parseStep(s string) (models.StepID, bool) {
	switch step := models.StepID(s); step {
	case models.StepCustomer, models.StepCity, models.StepLocation, models.StepSummary:
		return step, true
	}
	return "", false
}

func respondMachineError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{
			"success": false,
			"error":   verr.Message,
			"field":   verr.Field,
		})
	case errors.Is(err, ErrNotOpen):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotVerified), errors.Is(err, ErrInsufficientBalance):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
	}
}
