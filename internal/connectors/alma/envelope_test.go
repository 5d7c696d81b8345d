package alma

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

const resultPage = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<report>
  <QueryResult>
    <ResumptionToken>TOKEN-1</ResumptionToken>
    <IsFinished>false</IsFinished>
    <ResultXml>
      <rowset xmlns="urn:schemas-microsoft-com:xml-analysis:rowset">
        <Row>
          <Column0>0</Column0>
          <Column1>A title &amp; more</Column1>
          <Column2>QA 76</Column2>
          <Column3>B001</Column3>
        </Row>
        <Row>
          <Column0>1</Column0>
          <Column2>Unknown</Column2>
        </Row>
      </rowset>
    </ResultXml>
  </QueryResult>
</report>`

const lastPage = `<report><QueryResult><IsFinished>true</IsFinished><ResultXml>` +
	`<rowset xmlns="urn:schemas-microsoft-com:xml-analysis:rowset"/></ResultXml></QueryResult></report>`

const errorBody = `<?xml version="1.0" encoding="UTF-8"?>
<web_service_result xmlns="http://com/exlibris/urm/general/xmlbeans">
  <errorsExist>true</errorsExist>
  <errorList>
    <error>
      <errorCode>INTERNAL_SERVER_ERROR</errorCode>
      <errorMessage>Invalid API Key</errorMessage>
    </error>
  </errorList>
</web_service_result>`

func TestParseEnvelope_Result(t *testing.T) {
	env := ParseEnvelope([]byte(resultPage))

	result, ok := env.(*ResultEnvelope)
	require.True(t, ok, "got %T", env)
	assert.Equal(t, "TOKEN-1", result.Token)
	assert.True(t, result.HasToken)
	assert.False(t, result.Finished)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, domain.RawRow{
		"Column0": "0",
		"Column1": "A title & more",
		"Column2": "QA 76",
		"Column3": "B001",
	}, result.Rows[0])
	assert.Equal(t, domain.RawRow{"Column0": "1", "Column2": "Unknown"}, result.Rows[1])
}

func TestParseEnvelope_FinishedWithoutToken(t *testing.T) {
	env := ParseEnvelope([]byte(lastPage))

	result, ok := env.(*ResultEnvelope)
	require.True(t, ok)
	assert.True(t, result.Finished)
	assert.False(t, result.HasToken)
	assert.Empty(t, result.Rows)
}

func TestParseEnvelope_FinishedFlag(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		finished bool
	}{
		{"false", `<report><QueryResult><IsFinished>false</IsFinished></QueryResult></report>`, false},
		{"true", `<report><QueryResult><IsFinished>true</IsFinished></QueryResult></report>`, true},
		{"anything else", `<report><QueryResult><IsFinished>yes</IsFinished></QueryResult></report>`, true},
		{"absent", `<report><QueryResult><ResumptionToken>T</ResumptionToken></QueryResult></report>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseEnvelope([]byte(tt.body)).(*ResultEnvelope)
			require.True(t, ok)
			assert.Equal(t, tt.finished, result.Finished)
		})
	}
}

func TestParseEnvelope_NoRowset(t *testing.T) {
	body := `<report><QueryResult><ResumptionToken>T2</ResumptionToken>` +
		`<IsFinished>false</IsFinished><ResultXml/></QueryResult></report>`

	result, ok := ParseEnvelope([]byte(body)).(*ResultEnvelope)
	require.True(t, ok)
	assert.Empty(t, result.Rows)
	assert.Equal(t, "T2", result.Page().Token)
}

func TestParseEnvelope_Error(t *testing.T) {
	env := ParseEnvelope([]byte(errorBody))

	e, ok := env.(*ErrorEnvelope)
	require.True(t, ok, "got %T", env)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", e.Code)
	assert.Equal(t, "Invalid API Key", e.Message)

	err := envelopeError(env)
	assert.True(t, domain.IsServiceError(err))
	assert.False(t, domain.IsRetryable(err))
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestParseEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "  \n"},
		{"truncated", `<report><QueryResult><ResultXml><rowset><Row><Column0>1`},
		{"not xml", "Service Unavailable"},
		{"html garbage", "<html><body>oops</bod></html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ParseEnvelope([]byte(tt.body))
			_, ok := env.(*MalformedEnvelope)
			require.True(t, ok, "got %T", env)

			err := envelopeError(env)
			assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
			assert.True(t, domain.IsRetryable(err))
		})
	}
}

func TestParseEnvelope_Unexpected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown root", `<html><body>maintenance</body></html>`},
		{"report without QueryResult", `<report><Other/></report>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := ParseEnvelope([]byte(tt.body))
			_, ok := env.(*UnexpectedEnvelope)
			require.True(t, ok, "got %T", env)

			err := envelopeError(env)
			assert.ErrorIs(t, err, domain.ErrUnexpectedResponse)
			assert.False(t, domain.IsRetryable(err))
		})
	}
}
