// SPDX-License-Identifier: GPL-3.0-or-later

package osuapi

import "strings"

// Mods is the bitmask of game modifiers. Each bit is one modifier.
type Mods uint32

const (
	NoMod       Mods = 0
	NoFail      Mods = 1 << 0
	Easy        Mods = 1 << 1
	TouchDevice Mods = 1 << 2
	Hidden      Mods = 1 << 3
	HardRock    Mods = 1 << 4
	SuddenDeath Mods = 1 << 5
	DoubleTime  Mods = 1 << 6
	Relax       Mods = 1 << 7
	HalfTime    Mods = 1 << 8
	Nightcore   Mods = 1 << 9 // always set along with DoubleTime
	Flashlight  Mods = 1 << 10
	Autoplay    Mods = 1 << 11
	SpunOut     Mods = 1 << 12
	Autopilot   Mods = 1 << 13
	Perfect     Mods = 1 << 14 // always set along with SuddenDeath
	Key4        Mods = 1 << 15
	Key5        Mods = 1 << 16
	Key6        Mods = 1 << 17
	Key7        Mods = 1 << 18
	Key8        Mods = 1 << 19
	FadeIn      Mods = 1 << 20
	Random      Mods = 1 << 21
	LastMod     Mods = 1 << 22
	Key9        Mods = 1 << 24
	Key10       Mods = 1 << 25
	Key1        Mods = 1 << 26
	Key3        Mods = 1 << 27
	Key2        Mods = 1 << 28

	// KeyMod is the union of the Key4..Key8 modifiers.
	KeyMod = Key4 | Key5 | Key6 | Key7 | Key8

	// FreeModAllowed is the set of modifiers allowed in free-mod games.
	FreeModAllowed = NoFail | Easy | Hidden | HardRock | SuddenDeath |
		Flashlight | FadeIn | Relax | Autopilot | SpunOut | KeyMod
)

// modInfo describes a single-bit modifier.
type modInfo struct {
	flag      Mods
	longName  string
	shortName string
}

// modTable lists the single-bit modifiers in ascending bit order.
var modTable = []modInfo{
	{NoFail, "NoFail", "NF"},
	{Easy, "Easy", "EZ"},
	{TouchDevice, "TouchDevice", "TD"},
	{Hidden, "Hidden", "HD"},
	{HardRock, "HardRock", "HR"},
	{SuddenDeath, "SuddenDeath", "SD"},
	{DoubleTime, "DoubleTime", "DT"},
	{Relax, "Relax", "RX"},
	{HalfTime, "HalfTime", "HT"},
	{Nightcore, "Nightcore", "NC"},
	{Flashlight, "Flashlight", "FL"},
	{Autoplay, "Autoplay", ""},
	{SpunOut, "SpunOut", "SO"},
	{Autopilot, "Autopilot", "AP"},
	{Perfect, "Perfect", "PF"},
	{Key4, "Key4", "4K"},
	{Key5, "Key5", "5K"},
	{Key6, "Key6", "6K"},
	{Key7, "Key7", "7K"},
	{Key8, "Key8", "8K"},
	{FadeIn, "FadeIn", "FI"},
	{Random, "Random", "RD"},
	{LastMod, "LastMod", ""},
	{Key9, "Key9", "9K"},
	{Key10, "Key10", "10K"},
	{Key1, "Key1", "1K"},
	{Key3, "Key3", "3K"},
	{Key2, "Key2", "2K"},
}

// Valid implements [Enum]. Every 32 bit value is a valid bitmask,
// including values with bits we do not have a name for.
func (m Mods) Valid() bool {
	return true
}

// Union returns the modifiers set in either m or other.
func (m Mods) Union(other Mods) Mods {
	return m | other
}

// IntersectsAny returns whether any modifier in other is set in m. When
// other is [NoMod], it returns whether m is also [NoMod].
func (m Mods) IntersectsAny(other Mods) bool {
	return m&other != 0 || m == other
}

// ContainsAll returns whether all the modifiers in other are set in m.
func (m Mods) ContainsAll(other Mods) bool {
	return m&other == other
}

// Enabled returns the single-bit modifiers set in m, in bit order.
func (m Mods) Enabled() []Mods {
	var out []Mods
	for _, info := range modTable {
		if m&info.flag != 0 {
			out = append(out, info.flag)
		}
	}
	return out
}

// displayed returns the modifiers to show, hiding DoubleTime when
// Nightcore is set and SuddenDeath when Perfect is set.
func (m Mods) displayed() []modInfo {
	value := m
	if value&Nightcore != 0 {
		value &^= DoubleTime
	}
	if value&Perfect != 0 {
		value &^= SuddenDeath
	}
	var out []modInfo
	for _, info := range modTable {
		if value&info.flag != 0 {
			out = append(out, info)
		}
	}
	return out
}

// ShortName returns the concatenated initialisms (e.g., "HDHR").
func (m Mods) ShortName() string {
	var sb strings.Builder
	for _, info := range m.displayed() {
		sb.WriteString(info.shortName)
	}
	return sb.String()
}

// LongName returns the space separated names (e.g., "Hidden HardRock").
func (m Mods) LongName() string {
	var names []string
	for _, info := range m.displayed() {
		names = append(names, info.longName)
	}
	return strings.Join(names, " ")
}

// String returns the long name, or "NoMod" for the empty bitmask.
func (m Mods) String() string {
	if m == NoMod {
		return "NoMod"
	}
	return m.LongName()
}
