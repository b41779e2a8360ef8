package handlers

import (
	"net/http"
	"strings"

	"cableerp/models"
	"cableerp/repository"
)

type CompanyHandler struct {
	Repo repository.CompanyRepository
}

func (h *CompanyHandler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var company models.CompanyProfile
	if !decodeJSON(w, r, &company) {
		return
	}
	if strings.TrimSpace(company.CompanyName) == "" {
		writeJSON(w, http.StatusBadRequest, ApiResponse{Success: false, Message: "Company name is required"})
		return
	}

	if err := h.Repo.SaveCompany(r.Context(), &company); err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Company profile saved", company)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.Repo.GetCompany(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if company == nil {
		writeJSON(w, http.StatusNotFound, ApiResponse{Success: false, Message: "Company profile not found"})
		return
	}
	ok(w, "", company)
}
