package tree

import (
	"encoding/json"
	"fmt"
)

// wireWord is the serialized form of Word. Index is omitted when absent.
type wireWord struct {
	Index *int   `json:"index,omitempty"`
	Text  string `json:"text"`
}

// wireTree is the serialized form of every tree shape.
type wireTree struct {
	Type     string            `json:"type"`
	Label    string            `json:"label"`
	Source   string            `json:"source"`
	Word     *wireWord         `json:"word,omitempty"`
	Aux      json.RawMessage   `json:"aux,omitempty"`
	Left     json.RawMessage   `json:"left,omitempty"`
	Right    json.RawMessage   `json:"right,omitempty"`
	Inner    json.RawMessage   `json:"tree,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`
}

func (w Word) MarshalJSON() ([]byte, error) {
	ww := wireWord{Text: w.Text}
	if w.Index != NoIndex {
		idx := w.Index
		ww.Index = &idx
	}
	return json.Marshal(ww)
}

func (w *Word) UnmarshalJSON(data []byte) error {
	var ww wireWord
	if err := json.Unmarshal(data, &ww); err != nil {
		return err
	}
	w.Text = ww.Text
	w.Index = NoIndex
	if ww.Index != nil {
		w.Index = *ww.Index
	}
	return nil
}

func (l *Leaf) MarshalJSON() ([]byte, error) {
	out := struct {
		Type   string `json:"type"`
		Label  Label  `json:"label"`
		Source string `json:"source"`
		Word   Word   `json:"word"`
		Aux    Tree   `json:"aux,omitempty"`
	}{"leaf", l.Label, l.Source, l.Word, l.Aux}
	return json.Marshal(out)
}

func (b *Branch) MarshalJSON() ([]byte, error) {
	out := struct {
		Type   string `json:"type"`
		Label  Label  `json:"label"`
		Source string `json:"source"`
		Left   Tree   `json:"left"`
		Right  Tree   `json:"right"`
	}{"branch", b.Label, b.Source, b.Left, b.Right}
	return json.Marshal(out)
}

func (l *Labelled) MarshalJSON() ([]byte, error) {
	out := struct {
		Type   string `json:"type"`
		Label  Label  `json:"label"`
		Source string `json:"source"`
		Inner  Tree   `json:"tree"`
	}{"labelled", l.Label, l.Source, l.Inner}
	return json.Marshal(out)
}

func (r *Rose) MarshalJSON() ([]byte, error) {
	out := struct {
		Type     string `json:"type"`
		Label    Label  `json:"label"`
		Source   string `json:"source"`
		Children []Tree `json:"children"`
	}{"rose", r.Label, r.Source, r.Children}
	return json.Marshal(out)
}

// Unmarshal decodes a tree written by json.Marshal. Unlike the builders it
// reports unknown labels as errors, since the input is data.
// Source strings are rebuilt from the children.
func Unmarshal(data []byte) (Tree, error) {
	var w wireTree
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("tree: invalid json: %w", err)
	}
	label, err := ParseLabel(w.Label)
	if err != nil {
		return nil, err
	}

	switch w.Type {
	case "leaf":
		if w.Word == nil {
			return nil, fmt.Errorf("tree: leaf %q without word", w.Label)
		}
		word := Word{Index: NoIndex, Text: w.Word.Text}
		if w.Word.Index != nil {
			word.Index = *w.Word.Index
		}
		var aux Tree
		if len(w.Aux) > 0 && string(w.Aux) != "null" {
			if aux, err = Unmarshal(w.Aux); err != nil {
				return nil, err
			}
		}
		return NewLeaf(label, word, aux), nil
	case "branch":
		left, err := Unmarshal(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := Unmarshal(w.Right)
		if err != nil {
			return nil, err
		}
		return NewBranch(label, left, right), nil
	case "labelled":
		inner, err := Unmarshal(w.Inner)
		if err != nil {
			return nil, err
		}
		return NewLabelled(label, inner), nil
	case "rose":
		children := make([]Tree, 0, len(w.Children))
		for _, raw := range w.Children {
			c, err := Unmarshal(raw)
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		}
		return NewRose(label, children...), nil
	default:
		return nil, fmt.Errorf("tree: unknown node type %q", w.Type)
	}
}
