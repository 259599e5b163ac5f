// Package student contains all HTTP handlers related to the student
// record resource. The HTTP surface is a thin wrapper over the same
// storage.Storage interface the CLI commands use — same validation,
// same error taxonomy, no storage knowledge of its own.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a store.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (storage)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `storage` even after the factory call has returned:
//
//	router.HandleFunc("POST /api/students", student.New(storage))
//	//                         New(storage) is called ONCE at startup.
//	//                         It returns a handler func which is called
//	//                         on EVERY incoming request.
package student

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/aanand-mishra/student-records/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// New handles POST /api/students
// Creates a new record from the JSON request body and assigns it the
// next sequential ID.
//
// Success response (201 Created):
//
//	{ "id": 3, "path": "data/students/output_3.txt" }
//
// Error responses:
//
//	400 Bad Request  — empty body, malformed JSON, or failed validation
//	500 Internal     — store failure
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student record")

		var rec types.Record

		err := json.NewDecoder(r.Body).Decode(&rec)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// validator.New().Struct(v) checks all validate:"..." tags.
		// The store assigns ID and AverageGrade itself, so neither is
		// validated here.
		if err := validator.New().Struct(rec); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		id, path, err := store.Create(rec)
		if err != nil {
			slog.Error("error creating record", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student record created", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusCreated,
			map[string]any{"id": id, "path": path})
	}
}

// GetByID handles GET /api/students/{id}
// Fetches a single record by its assigned ID.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("id") extracts the {id} segment from the URL
		// (Go 1.22+ named path parameters in ServeMux patterns).
		id := r.PathValue("id")
		slog.Info("getting a student record", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		rec, err := store.GetByID(intID)
		if err != nil {
			slog.Error("error getting record",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StatusForError(err),
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, rec)
	}
}

// GetList handles GET /api/students
// Returns a JSON array of all records, ascending by ID.
// Returns an empty array [] (not null) when the store is empty.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all student records")

		records, err := store.List()
		if err != nil {
			slog.Error("error listing records", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, records)
	}
}

// editRequest is the PATCH payload: which field, and the new value.
// The value always travels as a string; the store checks it against
// the field's required type.
type editRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// EditField handles PATCH /api/students/{id}
// Replaces a single field of an existing record.
//
// Request body (JSON):
//
//	{ "field": "subject2_grade", "value": "88.5" }
//
// Success response (200 OK):
//
//	{ "status": "updated" }
//
// When the grade edit committed but the average could not be
// recomputed (legacy record missing grade lines), the edit stands and
// the response says so:
//
//	{ "status": "updated", "warning": "..." }
//
// Error responses:
//
//	400 Bad Request  — invalid id, unknown field, value of wrong type
//	404 Not Found    — no such record, or record lacks the field's line
//	500 Internal     — I/O failure
func EditField(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		slog.Info("editing a student record", slog.String("id", id))

		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		var req editRequest
		err = json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusBadRequest,
				response.ValidationError(validateErrs))
			return
		}

		sel, err := types.ParseFieldSelector(req.Field)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if err := store.EditField(intID, sel, req.Value); err != nil {
			// The edit committed; only the derived average is stale.
			if errors.Is(err, storage.ErrMissingFields) {
				slog.Warn("average not recomputed",
					slog.String("id", id),
					slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusOK,
					map[string]string{"status": "updated", "warning": err.Error()})
				return
			}

			slog.Error("error editing record",
				slog.String("id", id),
				slog.String("field", req.Field),
				slog.String("error", err.Error()))
			response.WriteJSON(w, response.StatusForError(err),
				response.GeneralError(err))
			return
		}

		slog.Info("student record updated",
			slog.String("id", id), slog.String("field", req.Field))
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// Reset handles DELETE /api/students
// Wipes the whole store: every record file is removed and the ID
// counter starts again at 1.
//
// Success response (200 OK):
//
//	{ "status": "reset", "removed": 4 }
func Reset(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("resetting the student store")

		removed, err := store.Reset()
		if err != nil {
			slog.Error("error resetting store", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("student store reset", slog.Int("removed", removed))
		response.WriteJSON(w, http.StatusOK,
			map[string]any{"status": "reset", "removed": removed})
	}
}
