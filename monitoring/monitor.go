// Package monitoring serves the state of a running frame allocation
// simulation over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/framesim/idgen"
	"github.com/sarchlab/framesim/mem/framealloc"
	"github.com/sarchlab/framesim/tracing"
)

// An Inspector serializes the monitor's reads with the simulation.
type Inspector interface {
	Inspect(f func())
	OwnerFrames() [][]uint64
}

type noInspector struct{}

func (noInspector) Inspect(f func())        { f() }
func (noInspector) OwnerFrames() [][]uint64 { return nil }

// Monitor turns a simulation into a server that can be inspected from a
// browser or with curl.
type Monitor struct {
	alloc      *framealloc.Allocator
	inspector  Inspector
	stats      *tracing.StatsTracer
	portNumber int
	ids        idgen.Generator

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	listener net.Listener
	server   *http.Server
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		inspector: noInspector{},
		ids:       idgen.NewSequential(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterAllocator sets the allocator to be monitored. All reads of the
// allocator go through inspector.
func (m *Monitor) RegisterAllocator(
	alloc *framealloc.Allocator,
	inspector Inspector,
) {
	m.alloc = alloc
	if inspector != nil {
		m.inspector = inspector
	}
}

// RegisterStatsTracer exposes the counters of a StatsTracer.
func (m *Monitor) RegisterStatsTracer(t *tracing.StatsTracer) {
	m.stats = t
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.ids.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the list.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/bitmap", m.bitmap)
	r.HandleFunc("/api/free_count", m.freeCount)
	r.HandleFunc("/api/owners", m.owners)
	r.HandleFunc("/api/allocator", m.allocatorDetails)
	r.HandleFunc("/api/frame/{addr}", m.frame)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving on the configured port, or on a random port if
// none is configured. It returns the URL of the server.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "monitoring server stopped: %v\n", err)
		}
	}()

	return url, nil
}

// OpenInBrowser opens the bitmap page of a started server.
func (m *Monitor) OpenInBrowser(url string) error {
	return browser.OpenURL(url + "/api/bitmap")
}

// StopServer shuts the server down.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	err := m.server.Close()
	m.server = nil

	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(bytes)
}

func (m *Monitor) allocatorOr404(w http.ResponseWriter) bool {
	if m.alloc == nil {
		http.Error(w, "No allocator registered", http.StatusNotFound)
		return false
	}

	return true
}

type bitmapRsp struct {
	NumFrames int    `json:"num_frames"`
	FrameSize uint64 `json:"frame_size"`
	FreeCount int    `json:"free_count"`
	Bitmap    string `json:"bitmap"`
	Free      []int  `json:"free"`
}

func (m *Monitor) bitmap(w http.ResponseWriter, _ *http.Request) {
	if !m.allocatorOr404(w) {
		return
	}

	var rsp bitmapRsp
	m.inspector.Inspect(func() {
		snapshot := m.alloc.BitmapSnapshot()

		rsp = bitmapRsp{
			NumFrames: m.alloc.NumFrames(),
			FrameSize: m.alloc.FrameSize(),
			FreeCount: m.alloc.FreeCount(),
			Bitmap:    snapshot.String(),
			Free:      []int{},
		}

		for i := 1; i < rsp.NumFrames; i++ {
			if snapshot.IsFree(i) {
				rsp.Free = append(rsp.Free, i)
			}
		}
	})

	writeJSON(w, rsp)
}

func (m *Monitor) freeCount(w http.ResponseWriter, _ *http.Request) {
	if !m.allocatorOr404(w) {
		return
	}

	var free int
	m.inspector.Inspect(func() { free = m.alloc.FreeCount() })

	fmt.Fprintf(w, "{\"free_count\":%d}", free)
}

func (m *Monitor) owners(w http.ResponseWriter, _ *http.Request) {
	frames := m.inspector.OwnerFrames()
	if frames == nil {
		frames = [][]uint64{}
	}

	writeJSON(w, frames)
}

func (m *Monitor) allocatorDetails(w http.ResponseWriter, _ *http.Request) {
	if !m.allocatorOr404(w) {
		return
	}

	var err error
	buf := bytes.NewBuffer(nil)

	m.inspector.Inspect(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(m.alloc)
		serializer.SetMaxDepth(1)
		err = serializer.Serialize(buf)
	})

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(buf.Bytes())
}

type frameRsp struct {
	Addr    uint64 `json:"addr"`
	Index   int    `json:"index"`
	Free    bool   `json:"free"`
	Content string `json:"content"`
}

func (m *Monitor) frame(w http.ResponseWriter, r *http.Request) {
	if !m.allocatorOr404(w) {
		return
	}

	addr, err := strconv.ParseUint(mux.Vars(r)["addr"], 0, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var (
		rsp  frameRsp
		data []byte
	)

	m.inspector.Inspect(func() {
		rsp.Index, err = m.alloc.IndexOf(addr)
		if err != nil {
			return
		}

		rsp.Addr = addr
		rsp.Free = m.alloc.IsFree(rsp.Index)
		data, err = m.alloc.ReadFrame(addr)
	})

	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	rsp.Content = fmt.Sprintf("%x", data)
	writeJSON(w, rsp)
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	if m.stats == nil {
		http.Error(w, "No stats tracer registered", http.StatusNotFound)
		return
	}

	writeJSON(w, m.stats.Stats())
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]progressSnapshot, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.snapshot())
	}
	m.progressBarsLock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}
