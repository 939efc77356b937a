package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/review"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReviewHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	MyList(w http.ResponseWriter, r *http.Request)
}

type reviewHandlerImpl struct {
	reviewService review.ReviewService
}

func NewReviewHandler(reviewService review.ReviewService) ReviewHandler {
	return &reviewHandlerImpl{reviewService: reviewService}
}

func (h *reviewHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req review.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Performance review created", result)
}

func reviewFilterFrom(r *http.Request) review.ReviewFilter {
	filter := review.ReviewFilter{
		EmployeeID:   queryString(r, "employee_id"),
		ReviewerID:   queryString(r, "reviewer_id"),
		ReviewPeriod: queryString(r, "review_period"),
	}
	filter.Page, filter.Limit = pageParams(r)
	return filter
}

func (h *reviewHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := reviewFilterFrom(r)
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reviewHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.reviewService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reviewHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req review.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *reviewHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Performance review deleted successfully", nil)
}

func (h *reviewHandlerImpl) MyList(w http.ResponseWriter, r *http.Request) {
	filter := reviewFilterFrom(r)
	filter.EmployeeID = nil
	filter.ReviewerID = nil
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reviewService.MyList(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
