package core

import (
	"net/http"

	"github.com/joeydtaylor/steeze-extension/pkg/codec"
)

func writeJSON(w http.ResponseWriter, payload []byte, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		return
	}
	_, _ = w.Write(emptyObject)
}

type connectorList struct {
	Connectors []string `json:"connectors"`
}

func listConnectors(l ConnectorLister) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		b, _ := codec.JSON.Marshal(connectorList{Connectors: l.IDs()})
		writeJSON(w, b, http.StatusOK)
	}
}
