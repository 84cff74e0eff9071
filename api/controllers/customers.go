package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/api/middleware"
	"github.com/webshopkit/webshop-backend/api/responses"
	"github.com/webshopkit/webshop-backend/api/validators"
	"github.com/webshopkit/webshop-backend/internal/customers"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/logger"
	"github.com/webshopkit/webshop-backend/pkg/pagination"
)

type registerAddressRequest struct {
	Street      string `json:"street" validate:"required"`
	HouseNumber string `json:"house_number" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
	City        string `json:"city" validate:"required"`
}

type registerCustomerRequest struct {
	Kind          string                 `json:"kind" validate:"required"`
	LastName      string                 `json:"last_name" validate:"required"`
	FirstName     *string                `json:"first_name,omitempty"`
	Email         string                 `json:"email" validate:"required,email"`
	Password      string                 `json:"password" validate:"required,min=8"`
	Category      int                    `json:"category"`
	Newsletter    bool                   `json:"newsletter"`
	TermsAgreed   bool                   `json:"terms_agreed"`
	Gender        *string                `json:"gender,omitempty"`
	MaritalStatus *string                `json:"marital_status,omitempty"`
	Hobbies       []string               `json:"hobbies,omitempty"`
	Address       registerAddressRequest `json:"address" validate:"required"`
}

func (req registerCustomerRequest) toInput() (customers.RegisterInput, error) {
	kind, err := enums.ParseCustomerKind(req.Kind)
	if err != nil {
		return customers.RegisterInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer kind")
	}

	input := customers.RegisterInput{
		Kind:        kind,
		LastName:    req.LastName,
		FirstName:   req.FirstName,
		Email:       req.Email,
		Password:    req.Password,
		Category:    req.Category,
		Newsletter:  req.Newsletter,
		TermsAgreed: req.TermsAgreed,
		Hobbies:     req.Hobbies,
		Address: customers.AddressInput{
			Street:      req.Address.Street,
			HouseNumber: req.Address.HouseNumber,
			Zip:         req.Address.Zip,
			City:        req.Address.City,
		},
	}

	if req.Gender != nil {
		gender, err := enums.ParseGender(*req.Gender)
		if err != nil {
			return customers.RegisterInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender")
		}
		input.Gender = &gender
	}
	if req.MaritalStatus != nil {
		status, err := enums.ParseMaritalStatus(*req.MaritalStatus)
		if err != nil {
			return customers.RegisterInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid marital status")
		}
		input.MaritalStatus = &status
	}

	return input, nil
}

type updateCustomerRequest struct {
	ExpectedVersion int64            `json:"expected_version" validate:"gte=0"`
	LastName        *string          `json:"last_name,omitempty"`
	FirstName       *string          `json:"first_name,omitempty"`
	Email           *string          `json:"email,omitempty" validate:"omitempty,email"`
	Category        *int             `json:"category,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Newsletter      *bool            `json:"newsletter,omitempty"`
	Remarks         *string          `json:"remarks,omitempty"`
	Gender          *string          `json:"gender,omitempty"`
	MaritalStatus   *string          `json:"marital_status,omitempty"`
	Hobbies         *[]string        `json:"hobbies,omitempty"`
}

func (req updateCustomerRequest) toInput() (customers.UpdateInput, error) {
	input := customers.UpdateInput{
		ExpectedVersion: req.ExpectedVersion,
		LastName:        req.LastName,
		FirstName:       req.FirstName,
		Email:           req.Email,
		Category:        req.Category,
		Discount:        req.Discount,
		Newsletter:      req.Newsletter,
		Remarks:         req.Remarks,
		Hobbies:         req.Hobbies,
	}

	if req.Gender != nil {
		gender, err := enums.ParseGender(*req.Gender)
		if err != nil {
			return customers.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender")
		}
		input.Gender = &gender
	}
	if req.MaritalStatus != nil {
		status, err := enums.ParseMaritalStatus(*req.MaritalStatus)
		if err != nil {
			return customers.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid marital status")
		}
		input.MaritalStatus = &status
	}

	return input, nil
}

// CustomerRegister handles public account creation.
func CustomerRegister(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		var body registerCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

// CustomerGet returns a single customer by id.
func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		customer, err := svc.GetByID(r.Context(), access, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// CustomerGetByEmail looks a customer up by exact email, case-insensitively.
func CustomerGetByEmail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter is required"))
			return
		}

		customer, err := svc.GetByEmail(r.Context(), access, email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// CustomerList returns a cursor page of customers, newest first.
func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), access, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// CustomerSearch finds customers whose last name starts with the given prefix.
func CustomerSearch(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		prefix := strings.TrimSpace(r.URL.Query().Get("last_name"))
		if prefix == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "last_name query parameter is required"))
			return
		}

		matches, err := svc.SearchByLastName(r.Context(), access, prefix)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, matches)
	}
}

// CustomerUpdate applies a partial mutation guarded by the expected version.
func CustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		var body updateCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Update(r.Context(), access, id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

// CustomerDelete removes a customer account. The operation is idempotent, so
// an account that is already gone still reports success.
func CustomerDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		if err := svc.Delete(r.Context(), access, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// maxFileUploadBytes caps a customer file upload at 5 MiB.
const maxFileUploadBytes = 5 << 20

// CustomerFileUpload stores the raw request body as the customer's file. The
// content type is sniffed server-side.
func CustomerFileUpload(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFileUploadBytes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds the upload limit"))
			return
		}

		file, err := svc.UploadFile(r.Context(), access, id, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, file)
	}
}

// CustomerFileDownload streams the customer's uploaded file back.
func CustomerFileDownload(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, ok := middleware.AccessFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "access context missing"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		file, err := svc.DownloadFile(r.Context(), access, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(file.Bytes)
	}
}
