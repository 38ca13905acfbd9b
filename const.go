package main

import "github.com/dimfu/metronome/metronome"

// TIME_SIGNATURES are the signatures offered by the console, in cycling order.
var TIME_SIGNATURES = []metronome.TimeSignature{
	{Beats: 4, NoteValue: 4},
	{Beats: 3, NoteValue: 4},
	{Beats: 2, NoteValue: 4},
	{Beats: 6, NoteValue: 8},
	{Beats: 5, NoteValue: 4},
	{Beats: 7, NoteValue: 8},
}

const (
	VOLUME_STEP    = 5
	MAX_BPM_DIGITS = 3

	CLICK_ASSET  = "assets/click.wav"
	PRESETS_FILE = ".metronome.json"
	LOG_FILE     = "metronome.log"
)
