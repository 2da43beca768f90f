package paramtree

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// xmlRoot / xmlNode / xmlItem / xmlItemList / xmlListItem are the wire
// shapes of the Param file format (§6): a root-anchored tree serialized
// as nested <NODE> with <ITEM> leaves and <ITEMLIST>/<LISTITEM> for list
// values. Restrictions are "min:max" or comma-separated whitelists.
// Description text substitutes "\n" -> "#br#".
type xmlRoot struct {
	XMLName xml.Name `xml:"PARAMETERS"`
	Node    xmlNode  `xml:"NODE"`
}

type xmlNode struct {
	Name        string        `xml:"name,attr"`
	Description string        `xml:"description,attr,omitempty"`
	Items       []xmlItem     `xml:"ITEM"`
	ItemLists   []xmlItemList `xml:"ITEMLIST"`
	Nodes       []xmlNode     `xml:"NODE"`
}

type xmlItem struct {
	Name         string `xml:"name,attr"`
	Type         string `xml:"type,attr"`
	Value        string `xml:"value,attr"`
	Description  string `xml:"description,attr,omitempty"`
	Tags         string `xml:"tags,attr,omitempty"`
	Restrictions string `xml:"restrictions,attr,omitempty"`
}

type xmlItemList struct {
	Name         string        `xml:"name,attr"`
	Type         string        `xml:"type,attr"`
	Description  string        `xml:"description,attr,omitempty"`
	Tags         string        `xml:"tags,attr,omitempty"`
	Restrictions string        `xml:"restrictions,attr,omitempty"`
	Items        []xmlListItem `xml:"LISTITEM"`
}

type xmlListItem struct {
	Value string `xml:"value,attr"`
}

func escapeDescription(s string) string {
	return strings.ReplaceAll(s, "\n", "#br#")
}

func unescapeDescription(s string) string {
	return strings.ReplaceAll(s, "#br#", "\n")
}

func encodeTags(tags []string) string {
	return strings.Join(tags, ",")
}

func decodeTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func encodeRestriction(r *Restriction, stringType bool) string {
	if r == nil {
		return ""
	}
	if stringType {
		return strings.Join(r.Whitelist, ",")
	}
	lo, hi := "", ""
	if r.HasMin {
		lo = formatFloat(r.Min)
	}
	if r.HasMax {
		hi = formatFloat(r.Max)
	}
	if lo == "" && hi == "" {
		return ""
	}
	return lo + ":" + hi
}

func decodeRestriction(s string, stringType bool) *Restriction {
	if s == "" {
		return nil
	}
	if stringType {
		return &Restriction{Whitelist: strings.Split(s, ",")}
	}
	parts := strings.SplitN(s, ":", 2)
	r := &Restriction{}
	if len(parts) == 2 {
		if parts[0] != "" {
			if v, err := strconv.ParseFloat(parts[0], 64); err == nil {
				r.HasMin, r.Min = true, v
			}
		}
		if parts[1] != "" {
			if v, err := strconv.ParseFloat(parts[1], 64); err == nil {
				r.HasMax, r.Max = true, v
			}
		}
	}
	return r
}

func typeName(t ValueType) string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeIntList:
		return "int-list"
	case TypeFloatList:
		return "float-list"
	case TypeStringList:
		return "string-list"
	}
	return "string"
}

func parseType(s string) (ValueType, error) {
	switch s {
	case "int":
		return TypeInt, nil
	case "float":
		return TypeFloat, nil
	case "string":
		return TypeString, nil
	case "int-list":
		return TypeIntList, nil
	case "float-list":
		return TypeFloatList, nil
	case "string-list":
		return TypeStringList, nil
	}
	return 0, apperrors.E(apperrors.Op("paramtree.parseType"), apperrors.KindParse, "unknown ITEM type: "+s)
}

func nodeToXML(n *Node) xmlNode {
	out := xmlNode{Name: n.Name, Description: escapeDescription(n.Description)}

	names := make([]string, 0, len(n.Entries))
	for name := range n.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := n.Entries[name]
		switch e.Type {
		case TypeIntList, TypeFloatList, TypeStringList:
			il := xmlItemList{
				Name:         e.Name,
				Type:         typeName(e.Type),
				Description:  escapeDescription(e.Description),
				Tags:         encodeTags(e.Tags),
				Restrictions: encodeRestriction(e.Restriction, e.Type == TypeStringList),
			}
			switch e.Type {
			case TypeIntList:
				for _, v := range e.IntList {
					il.Items = append(il.Items, xmlListItem{Value: strconv.FormatInt(v, 10)})
				}
			case TypeFloatList:
				for _, v := range e.FloatList {
					il.Items = append(il.Items, xmlListItem{Value: formatFloat(v)})
				}
			case TypeStringList:
				for _, v := range e.StringList {
					il.Items = append(il.Items, xmlListItem{Value: v})
				}
			}
			out.ItemLists = append(out.ItemLists, il)
		default:
			var val string
			switch e.Type {
			case TypeInt:
				val = strconv.FormatInt(e.IntValue, 10)
			case TypeFloat:
				val = formatFloat(e.FloatValue)
			case TypeString:
				val = e.StringValue
			}
			out.Items = append(out.Items, xmlItem{
				Name:         e.Name,
				Type:         typeName(e.Type),
				Value:        val,
				Description:  escapeDescription(e.Description),
				Tags:         encodeTags(e.Tags),
				Restrictions: encodeRestriction(e.Restriction, e.Type == TypeString),
			})
		}
	}

	childNames := make([]string, 0, len(n.Children))
	for name := range n.Children {
		childNames = append(childNames, name)
	}
	sort.Strings(childNames)
	for _, name := range childNames {
		out.Nodes = append(out.Nodes, nodeToXML(n.Children[name]))
	}
	return out
}

func xmlToNode(x xmlNode, parent *Node) (*Node, error) {
	n, err := NewNode(x.Name)
	if err != nil {
		return nil, err
	}
	n.Description = unescapeDescription(x.Description)
	n.parent = parent

	for _, it := range x.Items {
		t, err := parseType(it.Type)
		if err != nil {
			return nil, err
		}
		e := &Entry{
			Name:        it.Name,
			Type:        t,
			Description: unescapeDescription(it.Description),
			Tags:        decodeTags(it.Tags),
			Restriction: decodeRestriction(it.Restrictions, t == TypeString),
		}
		switch t {
		case TypeInt:
			v, err := strconv.ParseInt(it.Value, 10, 64)
			if err != nil {
				return nil, apperrors.E(apperrors.Op("paramtree.Load"), apperrors.KindParse, err)
			}
			e.IntValue = v
		case TypeFloat:
			v, err := strconv.ParseFloat(it.Value, 64)
			if err != nil {
				return nil, apperrors.E(apperrors.Op("paramtree.Load"), apperrors.KindParse, err)
			}
			e.FloatValue = v
		case TypeString:
			e.StringValue = it.Value
		}
		n.Entries[e.Name] = e
	}

	for _, il := range x.ItemLists {
		t, err := parseType(il.Type)
		if err != nil {
			return nil, err
		}
		e := &Entry{
			Name:        il.Name,
			Type:        t,
			Description: unescapeDescription(il.Description),
			Tags:        decodeTags(il.Tags),
			Restriction: decodeRestriction(il.Restrictions, t == TypeStringList),
		}
		for _, li := range il.Items {
			switch t {
			case TypeIntList:
				v, err := strconv.ParseInt(li.Value, 10, 64)
				if err != nil {
					return nil, apperrors.E(apperrors.Op("paramtree.Load"), apperrors.KindParse, err)
				}
				e.IntList = append(e.IntList, v)
			case TypeFloatList:
				v, err := strconv.ParseFloat(li.Value, 64)
				if err != nil {
					return nil, apperrors.E(apperrors.Op("paramtree.Load"), apperrors.KindParse, err)
				}
				e.FloatList = append(e.FloatList, v)
			case TypeStringList:
				e.StringList = append(e.StringList, li.Value)
			}
		}
		n.Entries[e.Name] = e
	}

	for _, cx := range x.Nodes {
		child, err := xmlToNode(cx, n)
		if err != nil {
			return nil, err
		}
		n.Children[child.Name] = child
	}

	return n, nil
}

// Store serializes the tree rooted at n to w in Param XML form.
func Store(w io.Writer, n *Node) error {
	root := xmlRoot{Node: nodeToXML(n)}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return apperrors.Wrap("paramtree.Store", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return apperrors.E(apperrors.Op("paramtree.Store"), apperrors.KindIO, err)
	}
	return nil
}

// Load parses a Param XML document from r into a *Node tree.
func Load(r io.Reader) (*Node, error) {
	var root xmlRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, apperrors.E(apperrors.Op("paramtree.Load"), apperrors.KindParse, err)
	}
	n, err := xmlToNode(root.Node, nil)
	if err != nil {
		return nil, err
	}
	return n, nil
}
