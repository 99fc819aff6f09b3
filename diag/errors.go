package diag

import "errors"

// Errors
var (
	ErrInvalidArgument   = errors.New("ssd1306: invalid argument")
	ErrOutOfBounds       = errors.New("ssd1306: out of display bounds")
	ErrAllocation        = errors.New("ssd1306: allocation failure")
	ErrIO                = errors.New("ssd1306: I/O error")
	ErrMalformedText     = errors.New("ssd1306: malformed text")
	ErrUnsupportedOption = errors.New("ssd1306: unsupported option")
	ErrProtocolMismatch  = errors.New("ssd1306: protocol mismatch")
	ErrMissingFontFile   = errors.New("ssd1306: missing font file")
	ErrNotSupported      = errors.New("ssd1306: not supported")
)

// Code classifies an error.
type Code int

// Error codes.
const (
	CodeOK Code = iota
	CodeInvalidArgument
	CodeOutOfBounds
	CodeAllocation
	CodeIO
	CodeMalformedText
	CodeUnsupportedOption
	CodeProtocolMismatch
	CodeMissingFontFile
	CodeNotSupported
	CodeUnknown
)

var codes = []struct {
	err  error
	code Code
	name string
}{
	{ErrInvalidArgument, CodeInvalidArgument, "InvalidArgument"},
	{ErrOutOfBounds, CodeOutOfBounds, "OutOfBounds"},
	{ErrAllocation, CodeAllocation, "AllocationFailure"},
	{ErrIO, CodeIO, "IOError"},
	{ErrMalformedText, CodeMalformedText, "MalformedText"},
	{ErrUnsupportedOption, CodeUnsupportedOption, "UnsupportedOption"},
	{ErrProtocolMismatch, CodeProtocolMismatch, "ProtocolMismatch"},
	{ErrMissingFontFile, CodeMissingFontFile, "MissingFontFile"},
	{ErrNotSupported, CodeNotSupported, "NotSupported"},
}

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "Unknown"
	}
	for _, e := range codes {
		if e.code == c {
			return e.name
		}
	}
	return "Unknown"
}

// CodeOf returns the code of the first taxonomy error wrapped by err.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	for _, e := range codes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeUnknown
}
