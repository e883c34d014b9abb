package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/defenceguesser/internal/defence"
)

// EquipmentDetail is the full record shown in the practice browser and
// after a round is resolved.
type EquipmentDetail struct {
	Name      string         `json:"name"`
	Origin    string         `json:"origin"`
	Type      string         `json:"type"`
	Coords    defence.Coords `json:"coords"`
	Image     string         `json:"image"`
	Specs     defence.Specs  `json:"specs"`
	InService string         `json:"inService"`
	Status    string         `json:"status"`
	Users     []string       `json:"users"`
}

func toDetail(eq defence.Equipment) EquipmentDetail {
	return EquipmentDetail{
		Name:      eq.Name,
		Origin:    eq.Origin,
		Type:      eq.Type,
		Coords:    eq.Coords,
		Image:     eq.Image,
		Specs:     eq.Specs,
		InService: eq.InService,
		Status:    eq.Status,
		Users:     eq.Users,
	}
}

// CatalogResponse is the practice grid for one category.
type CatalogResponse struct {
	Category string            `json:"category"`
	Items    []EquipmentDetail `json:"items"`
}

// CategoriesResponse lists the filter buttons, "all" first.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func handleCatalogList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := profileFrom(r).Browser
		items := b.SetCategory(r.URL.Query().Get("category"))

		resp := CatalogResponse{
			Category: b.Category(),
			Items:    make([]EquipmentDetail, 0, len(items)),
		}
		for _, eq := range items {
			resp.Items = append(resp.Items, toDetail(eq))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCatalogCategories(categories []string) http.HandlerFunc {
	resp := CategoriesResponse{Categories: append([]string{"all"}, categories...)}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCatalogDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := url.PathUnescape(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid equipment name")
			return
		}

		eq, err := profileFrom(r).Browser.Open(name)
		if err != nil {
			writeError(w, http.StatusNotFound, "equipment not found")
			return
		}
		writeJSON(w, http.StatusOK, toDetail(eq))
	}
}
