package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/reshape/internal/core"
)

// Request bodies of the edit endpoints.
type (
	FieldRequest struct {
		Name string `json:"name"`
	}

	RenameFieldRequest struct {
		From string `json:"from"`
		To   string `json:"to"`
	}

	FieldOrderRequest struct {
		Order []string `json:"order"`
	}

	SelectFieldRequest struct {
		Field    string `json:"field"`
		Selected bool   `json:"selected"`
	}

	IndexRequest struct {
		Index *int `json:"index"`
	}

	SetCellRequest struct {
		Row   *int   `json:"row"`
		Field string `json:"field"`
		Value string `json:"value"`
	}

	RuleRequest struct {
		Field string `json:"field"`
		From  string `json:"from"`
		To    string `json:"to"`
		Kind  string `json:"kind"`
	}
)

func requireIndex(name string, i *int) error {
	if i == nil {
		return fmt.Errorf("%w: %s is required", errBadRequestBody, name)
	}
	return nil
}

// handleEdit decodes a request body of type T and applies it with fn.
func handleEdit[T any](s *Server, op string, fn func(*core.Workspace, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if err := decodeBody(w, r, &req); err != nil {
			s.metrics.observe(op, err)
			respondError(w, r, err)
			return
		}
		s.mutate(w, r, op, func(ws *core.Workspace) error {
			return fn(ws, &req)
		})
	}
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, "add_row", func(ws *core.Workspace) error {
		ws.AddRow()
		return nil
	})
}

// Edit operations registered through handleEdit.

func addField(ws *core.Workspace, req *FieldRequest) error {
	return ws.AddField(req.Name)
}

func renameField(ws *core.Workspace, req *RenameFieldRequest) error {
	return ws.RenameField(req.From, req.To)
}

func deleteField(ws *core.Workspace, req *FieldRequest) error {
	ws.DeleteField(req.Name)
	return nil
}

func setFieldOrder(ws *core.Workspace, req *FieldOrderRequest) error {
	return ws.SetFieldOrder(req.Order)
}

func selectField(ws *core.Workspace, req *SelectFieldRequest) error {
	ws.SetSelected(req.Field, req.Selected)
	return nil
}

func deleteRow(ws *core.Workspace, req *IndexRequest) error {
	if err := requireIndex("index", req.Index); err != nil {
		return err
	}
	return ws.DeleteRow(*req.Index)
}

func setCell(ws *core.Workspace, req *SetCellRequest) error {
	if err := requireIndex("row", req.Row); err != nil {
		return err
	}
	return ws.SetCellValue(*req.Row, req.Field, req.Value)
}

func addRule(ws *core.Workspace, req *RuleRequest) error {
	return ws.AddRule(req.Field, req.From, req.To, core.RuleKind(req.Kind))
}

func removeRule(ws *core.Workspace, req *IndexRequest) error {
	if err := requireIndex("index", req.Index); err != nil {
		return err
	}
	return ws.RemoveRule(*req.Index)
}

func setOptions(ws *core.Workspace, req *core.TextOptions) error {
	return ws.SetOptions(*req)
}
