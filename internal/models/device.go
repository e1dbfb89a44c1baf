package models

import (
	"sort"
	"strings"
)

// DeviceMap maps a display username to the MAC address of their device
type DeviceMap struct {
	devices map[string]string
}

// NewDeviceMap creates a DeviceMap from name -> MAC pairs
func NewDeviceMap(devices map[string]string) DeviceMap {
	m := make(map[string]string, len(devices))
	for name, mac := range devices {
		m[name] = mac
	}
	return DeviceMap{devices: m}
}

// Lookup returns the MAC for username.
// ok is false when the name is missing or mapped to an empty address.
func (m DeviceMap) Lookup(username string) (mac string, ok bool) {
	mac, ok = m.devices[username]
	if mac == "" {
		return "", false
	}
	return mac, ok
}

// Names returns the known usernames, sorted
func (m DeviceMap) Names() []string {
	names := make([]string, 0, len(m.devices))
	for name := range m.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of mapped devices
func (m DeviceMap) Len() int {
	return len(m.devices)
}

// Profile applies one weekly schedule to a group of users
type Profile struct {
	Users []string `json:"users" yaml:"users"`
	Days  string   `json:"days" yaml:"days"`   // "Mon,Tue,Wed"
	Times string   `json:"times" yaml:"times"` // "21:00-23:59"
}

// Entries builds one "user days times" entry string per user
func (p Profile) Entries() []string {
	entries := make([]string, 0, len(p.Users))
	for _, user := range p.Users {
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		entries = append(entries, user+" "+p.Days+" "+p.Times)
	}
	return entries
}

// ProfileMap maps a profile name to its definition
type ProfileMap struct {
	profiles map[string]Profile
}

// NewProfileMap creates a ProfileMap
func NewProfileMap(profiles map[string]Profile) ProfileMap {
	m := make(map[string]Profile, len(profiles))
	for name, p := range profiles {
		m[name] = p
	}
	return ProfileMap{profiles: m}
}

// Lookup returns the named profile
func (m ProfileMap) Lookup(name string) (Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// Names returns the profile names, sorted
func (m ProfileMap) Names() []string {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
