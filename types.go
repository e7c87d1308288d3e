package main

import (
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"gitlab.com/elixxir/crypto/cyclic"
)

// #############################################################################

// Party is one participant's protocol context. It is built once per process
// and every protocol operation reads its secret from here.
type Party struct {
	cfg     PartyConfig
	params  *GroupParams
	secret  *Secret
	records []Record
	ages    map[string]float64
	client  *Client
	log     *logrus.Entry
}

type Relay struct {
	params   *GroupParams
	secret   *Secret
	clock    clockwork.Clock
	ttl      time.Duration
	opts     PoolOpts
	log      *logrus.Entry
	mu       sync.Mutex
	sessions map[string]*relaySession
}

type relaySession struct {
	labels  []string
	sets    map[string]BlindedSet
	touched time.Time
}

// #############################################################################

type PartyConfig struct {
	Port         int
	Label        string
	Peer         string
	Relay        string
	Dataset      string
	Timeout      time.Duration
	PollInterval time.Duration
	CORSOrigins  []string
	Profile      string
	Pool         PoolOpts
}

type RelayConfig struct {
	Port        int
	SessionTTL  time.Duration
	CORSOrigins []string
	Profile     string
	Pool        PoolOpts
}

type PoolOpts struct {
	Workers  int
	Progress bool
}

// #############################################################################

type GroupParams struct {
	grp   *cyclic.Group
	p     *big.Int
	pSub1 *big.Int
	pLen  int
}

type Secret struct {
	s *big.Int
}

type Record struct {
	ID  string  `json:"id"`
	Age float64 `json:"age"`
}

// BlindedValue pairs an exponentiated value with the label its producer
// uses for it: a plaintext identifier locally, an opaque handle on the wire.
type BlindedValue struct {
	ID    string
	Value *cyclic.Int
}

type BlindedSet []BlindedValue

// handleTable remembers, per handle, the identifier and its position in the
// set that was relabelled.
type handleTable struct {
	ids []string
	pos []int
}

type IntersectionResult struct {
	Intersection []string `json:"intersection"`
	Size         int      `json:"size"`
	AverageAge   *float64 `json:"averageAge"`
}

type RunState int

type Which string

// #############################################################################

type WireItem struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type UploadRequest struct {
	SessionID        string     `json:"sessionId"`
	ParticipantLabel string     `json:"participantLabel"`
	Items            []WireItem `json:"items"`
}

type PrepareRequest struct {
	SessionID string `json:"sessionId"`
}

type Ack struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Label  string `json:"label,omitempty"`
}

type Health struct {
	Label    string `json:"label,omitempty"`
	Mode     string `json:"mode"`
	Sessions int    `json:"sessions,omitempty"`
}

type errorBody struct {
	Error *RunError `json:"error"`
}

type Client struct {
	http    *http.Client
	timeout time.Duration
}

// #############################################################################

type ChanMsg struct {
	id   uint64
	data interface{}
}

type WorkerInput ChanMsg
type InputChannel chan WorkerInput
type WorkerOutput ChanMsg
type OutputChannel chan WorkerOutput
type WorkerCtx interface{}
type WorkerFunc func(WorkerCtx, interface{}) interface{}

type WorkerPool struct {
	InChan  InputChannel
	OutChan OutputChannel
	nJobs   uint64
	bar     *progressbar.ProgressBar
}

type Stopwatch struct {
	start time.Time
}

// #############################################################################

type BlindInput string

type ReExpInput struct {
	V *cyclic.Int
}

type ExpCtx struct {
	params *GroupParams
	secret *Secret
}

type ExpOutput struct {
	V *cyclic.Int
}

// #############################################################################

type Set struct {
	data map[string]bool
}

type SampleData struct {
	A, B    []Record
	dataDir string
}
