package layout

import (
	"github.com/beevik/etree"

	"github.com/arthur-debert/fwmaker/pkg/errors"
)

// The XML form keeps every attribute as text:
//
//	<layout>
//	    <component name="kernel" path="kernel.bin" size="0x100000" offset="0x200000"/>
//	</layout>

func marshalXML(l Layout) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("layout")
	for _, e := range l {
		c := root.CreateElement("component")
		c.CreateAttr("name", e.Name)
		c.CreateAttr("path", e.Path)
		c.CreateAttr("size", e.Size.String())
		c.CreateAttr("offset", e.Offset.String())
	}
	doc.Indent(4)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "cannot encode layout as XML")
	}
	return data, nil
}

func unmarshalXML(data []byte) (Layout, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigFormat, "invalid layout description")
	}

	root := doc.Root()
	if root == nil || root.Tag != "layout" {
		return nil, errors.New(errors.ErrConfigFormat, "invalid layout description: root element must be <layout>")
	}

	children := root.ChildElements()
	l := make(Layout, 0, len(children))
	for i, c := range children {
		if c.Tag != "component" {
			return nil, errors.Newf(errors.ErrConfigFormat, "item %d: unexpected element <%s>", i, c.Tag).
				WithDetail("index", i)
		}
		name := c.SelectAttrValue("name", "")
		e := Entry{Name: name}
		for _, field := range []string{"path", "size", "offset"} {
			attr := c.SelectAttr(field)
			if attr == nil {
				return nil, missingField(i, name, field)
			}
			switch field {
			case "path":
				e.Path = attr.Value
			case "size":
				e.Size = Text(attr.Value)
			case "offset":
				e.Offset = Text(attr.Value)
			}
		}
		l = append(l, e)
	}
	return l, nil
}
