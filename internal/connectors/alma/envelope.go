package alma

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// Root element names of the two documents the service returns.
const (
	rootReport        = "report"
	rootServiceResult = "web_service_result"
)

// Envelope is the classified outcome of parsing a response body.
// It is one of *ResultEnvelope, *ErrorEnvelope, *MalformedEnvelope or
// *UnexpectedEnvelope.
type Envelope interface {
	envelope()
}

// ResultEnvelope is a page of report results.
type ResultEnvelope struct {
	Rows []domain.RawRow

	// Token is the resumption token; HasToken is false when the element was absent.
	Token    string
	HasToken bool

	// Finished is true when IsFinished is present and not "false".
	Finished bool
}

// ErrorEnvelope is an error reported by the service.
type ErrorEnvelope struct {
	Code    string
	Message string
}

// MalformedEnvelope is a body that could not be parsed as XML.
type MalformedEnvelope struct {
	Err error
}

// UnexpectedEnvelope is well-formed XML with an unknown shape.
type UnexpectedEnvelope struct {
	Root   string
	Reason string
}

func (*ResultEnvelope) envelope()     {}
func (*ErrorEnvelope) envelope()      {}
func (*MalformedEnvelope) envelope()  {}
func (*UnexpectedEnvelope) envelope() {}

// Page converts the result to a domain page.
func (e *ResultEnvelope) Page() *domain.Page {
	return &domain.Page{
		Rows:     e.Rows,
		Token:    e.Token,
		HasToken: e.HasToken,
		Finished: e.Finished,
	}
}

// ServiceError converts the envelope to a domain error.
func (e *ErrorEnvelope) ServiceError() *domain.ServiceError {
	return &domain.ServiceError{Code: e.Code, Message: e.Message}
}

type xmlReport struct {
	QueryResult *struct {
		ResumptionToken *string `xml:"ResumptionToken"`
		IsFinished      *string `xml:"IsFinished"`
		ResultXML       struct {
			Rowset struct {
				Rows []xmlRow `xml:"Row"`
			} `xml:"rowset"`
		} `xml:"ResultXml"`
	} `xml:"QueryResult"`
}

type xmlRow struct {
	Columns []xmlColumn `xml:",any"`
}

type xmlColumn struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlServiceResult struct {
	Errors []struct {
		Code    string `xml:"errorCode"`
		Message string `xml:"errorMessage"`
	} `xml:"errorList>error"`
}

// ParseEnvelope classifies a response body.
func ParseEnvelope(body []byte) Envelope {
	if len(bytes.TrimSpace(body)) == 0 {
		return &MalformedEnvelope{Err: errors.New("empty body")}
	}

	root, err := rootElement(body)
	if err != nil {
		return &MalformedEnvelope{Err: err}
	}

	switch root {
	case rootServiceResult:
		var doc xmlServiceResult
		if err := xml.Unmarshal(body, &doc); err != nil {
			return &MalformedEnvelope{Err: err}
		}
		if len(doc.Errors) == 0 {
			return &ErrorEnvelope{Message: "unknown error"}
		}
		first := doc.Errors[0]
		return &ErrorEnvelope{
			Code:    strings.TrimSpace(first.Code),
			Message: strings.TrimSpace(first.Message),
		}

	case rootReport:
		var doc xmlReport
		if err := xml.Unmarshal(body, &doc); err != nil {
			return &MalformedEnvelope{Err: err}
		}
		if doc.QueryResult == nil {
			return &UnexpectedEnvelope{Root: root, Reason: "missing QueryResult"}
		}
		qr := doc.QueryResult
		result := &ResultEnvelope{
			Rows: make([]domain.RawRow, 0, len(qr.ResultXML.Rowset.Rows)),
		}
		for _, r := range qr.ResultXML.Rowset.Rows {
			row := make(domain.RawRow, len(r.Columns))
			for _, c := range r.Columns {
				row[c.XMLName.Local] = c.Value
			}
			result.Rows = append(result.Rows, row)
		}
		if qr.ResumptionToken != nil {
			result.Token = strings.TrimSpace(*qr.ResumptionToken)
			result.HasToken = true
		}
		if qr.IsFinished != nil {
			result.Finished = strings.TrimSpace(*qr.IsFinished) != "false"
		}
		return result

	default:
		return &UnexpectedEnvelope{Root: root, Reason: "unknown root element"}
	}
}

// rootElement checks that body is well-formed XML and returns the local
// name of its root element.
func rootElement(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var root string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if start, ok := tok.(xml.StartElement); ok && root == "" {
			root = start.Name.Local
		}
	}
	if root == "" {
		return "", errors.New("no root element")
	}
	return root, nil
}

// envelopeError maps a non-result envelope to the error the fetcher returns.
func envelopeError(env Envelope) error {
	switch e := env.(type) {
	case *ErrorEnvelope:
		return e.ServiceError()
	case *MalformedEnvelope:
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, e.Err)
	case *UnexpectedEnvelope:
		return fmt.Errorf("%w: <%s>: %s", domain.ErrUnexpectedResponse, e.Root, e.Reason)
	default:
		return nil
	}
}
