package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// #############################################################################

func withCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{pendingHeader},
	}).Handler(h)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	re := AsRunError(err)
	writeJSON(w, re.HTTPStatus(), errorBody{re})
}

func readJSON(w http.ResponseWriter, req *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return dataError(err, "malformed request body")
	}
	return nil
}

func allow(w http.ResponseWriter, req *http.Request, methods ...string) bool {
	for _, m := range methods {
		if req.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", methods[0])
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{dataError(nil, "method %s not allowed", req.Method)})
	return false
}

// #############################################################################

func NewPartyHandler(p *Party) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Health{Label: p.Label(), Mode: p.DefaultMode()})
	})

	mux.HandleFunc("/psi/blinded", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodGet) {
			return
		}
		items, _ := p.BlindForWire()
		writeJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("/psi/reexponentiate", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodPost) {
			return
		}
		var items []WireItem
		if err := readJSON(w, req, &items); err != nil {
			writeError(w, err)
			return
		}
		out, err := p.ReExponentiateWire(items)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("/psi/relay/prepare", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodPost) {
			return
		}
		var body PrepareRequest
		if err := readJSON(w, req, &body); err != nil {
			writeError(w, err)
			return
		}
		ack, err := p.UploadToRelay(req.Context(), body.SessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ack)
	})

	mux.HandleFunc("/psi/run", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodGet, http.MethodPost) {
			return
		}
		res, err := p.Run(req.Context(), req.URL.Query().Get("mode"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	return withCORS(mux, p.cfg.CORSOrigins)
}

// #############################################################################

func NewRelayHandler(r *Relay, origins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, Health{Mode: "relay", Sessions: r.Sessions()})
	})

	mux.HandleFunc("/relay/upload", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodPost) {
			return
		}
		var body UploadRequest
		if err := readJSON(w, req, &body); err != nil {
			writeError(w, err)
			return
		}
		set, err := DecodeItems(r.params, body.Items)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := r.Upload(body.SessionID, body.ParticipantLabel, set); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ack{Status: "ok", Count: len(set)})
	})

	mux.HandleFunc("/relay/processed", func(w http.ResponseWriter, req *http.Request) {
		if !allow(w, req, http.MethodGet) {
			return
		}
		q := req.URL.Query()
		which, err := ParseWhich(q.Get("which"))
		if err != nil {
			writeError(w, err)
			return
		}
		set, ok, err := r.GetProcessed(q.Get("sessionId"), q.Get("participantLabel"), which)
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			w.Header().Set(pendingHeader, "1")
		}
		writeJSON(w, http.StatusOK, EncodeItems(r.params, set))
	})

	return withCORS(mux, origins)
}

// #############################################################################

// Serve runs h on port until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, port int, h http.Handler, logger *logrus.Entry) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
