package frame

import (
	"encoding/base64"
	"fmt"

	"github.com/roach88/scribe/internal/content"
	"github.com/roach88/scribe/internal/ir"
)

// ToIR converts f to IR so laid-out fragments can be hashed and persisted.
func ToIR(f Frame) ir.IRObject {
	items := make(ir.IRArray, len(f.Items))
	for i, p := range f.Items {
		obj := itemToIR(p.Item)
		obj["x"] = ir.IRInt(p.Pos.X)
		obj["y"] = ir.IRInt(p.Pos.Y)
		items[i] = obj
	}
	return ir.IRObject{
		"w":     ir.IRInt(f.Size.W),
		"h":     ir.IRInt(f.Size.H),
		"items": items,
	}
}

func itemToIR(item Item) ir.IRObject {
	switch it := item.(type) {
	case Text:
		return ir.IRObject{
			"type":  ir.IRString("text"),
			"body":  ir.IRString(it.Body),
			"size":  ir.IRInt(it.Size),
			"fill":  ir.IRString(it.Fill),
			"width": ir.IRInt(it.Width),
		}
	case Shape:
		return ir.IRObject{
			"type": ir.IRString("shape"),
			"w":    ir.IRInt(it.Size.W),
			"h":    ir.IRInt(it.Size.H),
			"fill": ir.IRString(it.Fill),
		}
	case Image:
		return ir.IRObject{
			"type": ir.IRString("image"),
			"w":    ir.IRInt(it.Size.W),
			"h":    ir.IRInt(it.Size.H),
			"path": ir.IRString(it.Path),
			"mime": ir.IRString(it.Mime),
			"data": ir.IRString(base64.StdEncoding.EncodeToString(it.Data)),
		}
	case Group:
		return ir.IRObject{
			"type":  ir.IRString("group"),
			"frame": ToIR(it.Frame),
		}
	case Tag:
		return ir.IRObject{
			"type":    ir.IRString("tag"),
			"content": content.ToIR(it.Content),
		}
	default:
		panic(fmt.Sprintf("frame: unknown item %T", item))
	}
}

// FromIR is the inverse of ToIR.
func FromIR(obj ir.IRObject) (Frame, error) {
	f := Frame{Size: Size{W: absField(obj, "w"), H: absField(obj, "h")}}
	items, _ := obj["items"].(ir.IRArray)
	for i, raw := range items {
		io, ok := raw.(ir.IRObject)
		if !ok {
			return Frame{}, fmt.Errorf("items[%d]: expected object, found %s", i, ir.TypeName(raw))
		}
		item, err := itemFromIR(io)
		if err != nil {
			return Frame{}, fmt.Errorf("items[%d]: %w", i, err)
		}
		f.Push(Point{X: absField(io, "x"), Y: absField(io, "y")}, item)
	}
	return f, nil
}

func itemFromIR(obj ir.IRObject) (Item, error) {
	typ, _ := obj["type"].(ir.IRString)
	switch typ {
	case "text":
		return Text{
			Body:  strField(obj, "body"),
			Size:  absField(obj, "size"),
			Fill:  strField(obj, "fill"),
			Width: absField(obj, "width"),
		}, nil
	case "shape":
		return Shape{
			Size: Size{W: absField(obj, "w"), H: absField(obj, "h")},
			Fill: strField(obj, "fill"),
		}, nil
	case "image":
		data, err := base64.StdEncoding.DecodeString(strField(obj, "data"))
		if err != nil {
			return nil, fmt.Errorf("image data: %w", err)
		}
		return Image{
			Size: Size{W: absField(obj, "w"), H: absField(obj, "h")},
			Path: strField(obj, "path"),
			Mime: strField(obj, "mime"),
			Data: data,
		}, nil
	case "group":
		sub, _ := obj["frame"].(ir.IRObject)
		fr, err := FromIR(sub)
		if err != nil {
			return nil, err
		}
		return Group{Frame: fr}, nil
	case "tag":
		raw, _ := obj["content"].(ir.IRObject)
		c, err := content.FromIR(raw)
		if err != nil {
			return nil, fmt.Errorf("tag: %w", err)
		}
		return Tag{Content: c}, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", string(typ))
	}
}

func absField(obj ir.IRObject, key string) Abs {
	n, _ := obj[key].(ir.IRInt)
	return Abs(n)
}

func strField(obj ir.IRObject, key string) string {
	s, _ := obj[key].(ir.IRString)
	return string(s)
}
