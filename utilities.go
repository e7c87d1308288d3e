package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// #############################################################################

func Assert(v bool) {
	if !v {
		panic("Assertion failed")
	}
}

func Check(err error) {
	if err != nil {
		panic(err)
	}
}

// #############################################################################

func Timer(start time.Time, log *logrus.Entry, what string) {
	elapsed := time.Since(start)
	log.WithField("elapsed", elapsed).Debugf("%s done", what)
}

func (w *Stopwatch) Reset() {
	w.start = time.Now()
}

func (w *Stopwatch) Elapsed() time.Duration {
	return time.Since(w.start)
}

// #############################################################################

func NewSet(strs []string) *Set {
	var set Set
	set.data = make(map[string]bool)
	for _, s := range strs {
		set.data[s] = true
	}
	return &set
}

func (s *Set) Size() int {
	return len(s.data)
}

func (s *Set) Add(t string) {
	s.data[t] = true
}

func (s *Set) Contains(t string) bool {
	_, ok := s.data[t]
	return ok
}

func (s *Set) RandomN(n int, l int) {
	s.data = make(map[string]bool)
	for len(s.data) < n {
		s.data[RandomString(l)] = true
	}
}

func (s *Set) Serialize() []string {
	ret := make([]string, 0, s.Size())
	for k := range s.data {
		ret = append(ret, k)
	}
	return ret
}

func RandomString(n int) string {
	var letterRunes = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rand.Intn(len(letterRunes))]
	}
	return string(b)
}

// #############################################################################

func NewProgressBar(sz int, color, name string) *progressbar.ProgressBar {
	return progressbar.NewOptions(sz,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]%s...[reset]", color, name)),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// #############################################################################

func AppendFile(fpath string, strs []string) error {
	file, err := os.OpenFile(fpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, s := range strs {
		if _, err := fmt.Fprintln(file, s); err != nil {
			return err
		}
	}
	return nil
}

// baseURL accepts "host:port" or a full URL and returns it without a
// trailing slash.
func baseURL(addr string) string {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return addr
}
