// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/go-chi/chi/v5"
	"github.com/soros1321/polkadot/session"
	"github.com/soros1321/polkadot/statemachine"
)

// maxCallDataSize limits the size of request bodies of calls.
const maxCallDataSize = 1 << 20

// NewServer exposes the given session over HTTP. Keys, values and call data
// are hex encoded with a 0x prefix.
//
//	GET  /health          liveness check
//	GET  /storage/{key}   current value of a key
//	GET  /code            current code blob
//	GET  /validators      current validator list
//	POST /call/{method}   executes a call, the body holds the call data
//	POST /flush           writes committed changes to the store
func NewServer(s *session.Session) http.Handler {
	r := chi.NewRouter()
	h := &handler{session: s}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/storage/{key}", h.getStorage)
	r.Get("/code", h.getCode)
	r.Get("/validators", h.getValidators)
	r.Post("/call/{method}", h.call)
	r.Post("/flush", h.flush)
	return r
}

type handler struct {
	session *session.Session
}

type StorageResponse struct {
	Key   hexutil.Bytes `json:"key"`
	Value hexutil.Bytes `json:"value"`
}

type CodeResponse struct {
	Code hexutil.Bytes `json:"code"`
}

type ValidatorsResponse struct {
	Validators []hexutil.Bytes `json:"validators"`
}

type CallResponse struct {
	Output hexutil.Bytes `json:"output"`
}

type FlushResponse struct {
	Flushed int `json:"flushed"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *handler) getStorage(w http.ResponseWriter, r *http.Request) {
	key, err := hexutil.Decode(chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid key: %w", err))
		return
	}
	value, err := h.session.Storage(key)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, StorageResponse{Key: key, Value: value})
}

func (h *handler) getCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.session.Code()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, CodeResponse{Code: code})
}

func (h *handler) getValidators(w http.ResponseWriter, r *http.Request) {
	validators, err := h.session.Validators()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	res := ValidatorsResponse{Validators: make([]hexutil.Bytes, 0, len(validators))}
	for _, validator := range validators {
		res.Validators = append(res.Validators, validator)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) call(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallDataSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(body) > maxCallDataSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("call data exceeds %d bytes", maxCallDataSize))
		return
	}
	var data []byte
	if text := strings.TrimSpace(string(body)); text != "" {
		data, err = hexutil.Decode(text)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid call data: %w", err))
			return
		}
	}
	out, err := h.session.Call(method, data)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, CallResponse{Output: out})
}

func (h *handler) flush(w http.ResponseWriter, r *http.Request) {
	count, err := h.session.Flush()
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, FlushResponse{Flushed: count})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, statemachine.ErrExecutor):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Warn("Request failed", "status", status, "err", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Debug("Failed to write response", "err", err)
	}
}
