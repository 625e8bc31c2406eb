// A stand-in for the ZKTeco LAN gateway: serves a canned attendance buffer
// so the sync pipeline can be exercised without a physical terminal.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"
)

type rawEvent struct {
	DeviceUserID   string `json:"deviceUserId"`
	Timestamp      string `json:"timestamp"`
	AttendanceType int    `json:"attendanceType"`
	DeviceID       string `json:"deviceId"`
}

type gateway struct {
	mu     sync.Mutex
	events []rawEvent
}

func seedEvents() []rawEvent {
	today := time.Now().Format("2006-01-02")
	return []rawEvent{
		{DeviceUserID: "EMP-001", Timestamp: today + "T08:02:11Z", AttendanceType: 0, DeviceID: "192.168.1.201"},
		{DeviceUserID: "EMP-001", Timestamp: today + "T16:33:40Z", AttendanceType: 1, DeviceID: "192.168.1.201"},
		{DeviceUserID: "EMP-002", Timestamp: today + "T09:15:00Z", AttendanceType: 0, DeviceID: "192.168.1.201"},
		{DeviceUserID: "UNKNOWN-99", Timestamp: today + "T10:00:00Z", AttendanceType: 0, DeviceID: "192.168.1.201"},
	}
}

func (g *gateway) attendance(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	log.Printf("Serving %d buffered events", len(g.events))
	json.NewEncoder(w).Encode(map[string]any{"events": g.events})
}

func (g *gateway) clear(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	log.Printf("Clearing %d buffered events", len(g.events))
	g.events = nil
	w.WriteHeader(http.StatusOK)
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func main() {
	g := &gateway{events: seedEvents()}

	mux := http.NewServeMux()
	mux.HandleFunc("/devices/192.168.1.201/connect", ok)
	mux.HandleFunc("/devices/192.168.1.201/disconnect", ok)
	mux.HandleFunc("/devices/192.168.1.201/attendance", g.attendance)
	mux.HandleFunc("/devices/192.168.1.201/attendance/clear", g.clear)
	mux.HandleFunc("/devices/192.168.1.201/users", ok)
	mux.HandleFunc("/devices/192.168.1.201/users/delete", ok)

	log.Println("Device gateway mock starting on port 8081...")
	log.Fatal(http.ListenAndServe(":8081", mux))
}
