package profile

import (
	"log"
	"net/http"

	"shopfront/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// GetProfile re-fetches the profile and returns it with the rendered order
// history.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, orders, err := h.store.Refresh(r.Context())
	if err != nil {
		log.Println("profile: refresh failed:", err)
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to load profile")
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"user":   user,
		"orders": views,
	})
}
