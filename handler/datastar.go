package handler

import (
	"encoding/json"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/saludigital/cadastro/binder"
)

// IsDataStar reports whether r came from the Datastar client and expects
// an event stream back.
func IsDataStar(r *http.Request) bool {
	return binder.IsDataStar(r)
}

type signalsResponse struct {
	signals any
}

func (s signalsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return JSON(s.signals).Render(w, r)
	}
	data, err := json.Marshal(s.signals)
	if err != nil {
		return err
	}
	return datastar.NewSSE(w, r).PatchSignals(data)
}

// Signals patches v into the Datastar signal store. Plain requests get v
// as a JSON body instead.
func Signals(v any) Response {
	return signalsResponse{signals: v}
}
