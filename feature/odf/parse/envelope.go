package parse

import (
	"errors"
)

// Envelope validation failures, distinguished from XML decode errors so
// the transport can map them to different status codes.
var (
	ErrNoEnvelope     = errors.New("no OdfBody node in document")
	ErrNoDocumentType = errors.New("OdfBody carries no DocumentType")
)

// Wildcard matches any discipline or subtype in the routing table.
const Wildcard = "ANY"

// defaultDiscipline classifies messages whose envelope carries no
// document code.
const defaultDiscipline = "GEN"

// Message is one classified inbound ODF message: the envelope
// attributes used for routing plus the OdfBody element itself.
type Message struct {
	// Type is the DocumentType envelope attribute.
	Type string
	// Discipline is the first three characters of the DocumentCode,
	// decoupled from any entity's discipline field.
	Discipline string
	// Subtype is the DocumentSubtype attribute, Wildcard when absent.
	Subtype string
	// DocumentCode is the raw document code; results and medallists
	// messages carry their unit or event identifier here.
	DocumentCode string
	// ResultStatus is the result state attribute of DT_RESULT messages.
	ResultStatus string
	// Body is the OdfBody element.
	Body *Node
}

// Envelope locates the OdfBody node (top-level or nested) and extracts
// the classifying attributes. A missing DocumentType is a hard
// validation failure for the whole message.
func Envelope(raw []byte) (*Message, error) {
	root, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	body := root
	if body.XMLName.Local != "OdfBody" {
		body = root.FindDescendant("OdfBody")
		if body == nil {
			return nil, ErrNoEnvelope
		}
	}

	docType := body.Attr("DocumentType")
	if docType == "" {
		return nil, ErrNoDocumentType
	}

	docCode := body.Attr("DocumentCode")
	discipline := defaultDiscipline
	if len(docCode) >= 3 {
		discipline = docCode[:3]
	}

	subtype := body.Attr("DocumentSubtype")
	if subtype == "" {
		subtype = Wildcard
	}

	return &Message{
		Type:         docType,
		Discipline:   discipline,
		Subtype:      subtype,
		DocumentCode: docCode,
		ResultStatus: body.Attr("ResultStatus"),
		Body:         body,
	}, nil
}
