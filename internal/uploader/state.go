package uploader

import (
	"github.com/spigell/cv-matcher/internal/candidate"
	"github.com/spigell/cv-matcher/internal/matching"
)

// Kind classifies the error stored in State.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindServer
	KindShape
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindShape:
		return "shape"
	case KindTransport:
		return "transport"
	default:
		return "none"
	}
}

// State is everything a rendering surface needs to draw the uploader.
type State struct {
	Candidate    *candidate.File
	Error        string
	ErrorKind    Kind
	Notice       string
	Results      []*matching.Match
	Progress     int
	Busy         bool
	SubmissionID string
}

func (s State) selected(file *candidate.File) State {
	s.Candidate = file
	s.Error = ""
	s.ErrorKind = KindNone
	s.Notice = ""
	s.Results = nil
	return s
}

// rejected keeps earlier results, only a valid selection clears them.
func (s State) rejected(err error) State {
	s.Candidate = nil
	s.Error = err.Error()
	s.ErrorKind = KindValidation
	return s
}

func (s State) missing(err error) State {
	s.Error = err.Error()
	s.ErrorKind = KindValidation
	return s
}

func (s State) started(submissionID string) State {
	s.Busy = true
	s.Error = ""
	s.ErrorKind = KindNone
	s.Notice = ""
	s.Results = nil
	s.Progress = 0
	s.SubmissionID = submissionID
	return s
}

func (s State) advanced(progress int) State {
	if !s.Busy {
		return s
	}
	s.Progress = progress
	return s
}

func (s State) succeeded(results []*matching.Match) State {
	s.Busy = false
	s.Progress = 100
	s.Results = results
	return s
}

func (s State) emptied(notice string) State {
	s.Busy = false
	s.Progress = 100
	s.Notice = notice
	return s
}

func (s State) failed(kind Kind, message string) State {
	s.Busy = false
	s.Progress = 100
	s.Error = message
	s.ErrorKind = kind
	return s
}

func (s State) reset() State {
	s.Progress = 0
	return s
}
