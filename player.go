// Package metasprite imports Aseprite files into texture atlases and
// animation clips and plays them with ebiten.
package metasprite

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/setanarut/metasprite/aseparser"
	"github.com/setanarut/metasprite/atlas"
	"github.com/setanarut/metasprite/clip"
	"github.com/setanarut/metasprite/config"
	"github.com/setanarut/metasprite/importer"
	"github.com/setanarut/metasprite/metalayer"
	"github.com/setanarut/v"
)

const Delta = time.Second / 60

const debugFormat = "Tag: %v\nRepeat: %v\nEnded: %v\nFrame: %v\nElapsed: %v\nPaused: %v"

// ErrNoClips is returned for files without frame tags.
var ErrNoClips = errors.New("metasprite: the Aseprite file does not have a tag")

// Frame is one sprite of an animation.
type Frame struct {
	Image *ebiten.Image

	// Pivot is the offset from the pivot to the top-left corner of Image.
	// Translate by Pivot, then by the position of the sprite.
	Pivot v.Vec

	Duration time.Duration

	// Events fire when the frame becomes current.
	Events []clip.Event
}

// Bounds returns the rectangle of the frame in the atlas image.
func (f Frame) Bounds() image.Rectangle {
	return f.Image.Bounds()
}

// AnimPlayer plays and manages animation clips.
type AnimPlayer struct {

	// The frame of the animation currently being played
	CurrentFrame Frame

	// The animation currently being played
	CurrentAnimation *Animation

	// Animations accessible by their clip names
	Animations map[string]*Animation

	// Sprite atlas containing all animations
	Atlas *ebiten.Image

	// If true, the animation is paused
	Paused bool

	// OnEvent is called for the events of every frame that becomes current.
	OnEvent func(clip.Event)

	frameElapsedTime time.Duration
	frameIndex       int
	isEnded          bool
	repeatCount      uint16
}

func (a *AnimPlayer) Update(dt time.Duration) {
	if a.Paused || a.isEnded {
		return
	}
	activeAnim := a.CurrentAnimation
	a.frameElapsedTime += dt
	if a.frameElapsedTime < activeAnim.Frames[a.frameIndex].Duration {
		return
	}
	a.frameElapsedTime = 0
	a.frameIndex++
	if a.frameIndex >= len(activeAnim.Frames) {
		if activeAnim.Repeat == 0 {
			a.frameIndex = 0
		} else {
			a.repeatCount++
			if a.repeatCount >= activeAnim.Repeat {
				a.isEnded = true
				a.frameIndex = len(activeAnim.Frames) - 1
				a.CurrentFrame = activeAnim.Frames[a.frameIndex]
				return
			}
			a.frameIndex = 0
		}
	}
	a.setFrame()
}

func (a *AnimPlayer) setFrame() {
	a.CurrentFrame = a.CurrentAnimation.Frames[a.frameIndex]
	if a.OnEvent != nil {
		for _, e := range a.CurrentFrame.Events {
			a.OnEvent(e)
		}
	}
}

// If Animation.Repeat is not zero, it returns true when the animation ends. If it is zero, it is always false.
func (a *AnimPlayer) IsEnded() bool {
	return a.isEnded
}

// Play rewinds and plays the animation.
func (a *AnimPlayer) Play(tag string) {
	anim, ok := a.Animations[tag]
	if !ok {
		panic(fmt.Sprintf("metasprite: no animation %q", tag))
	}
	a.CurrentAnimation = anim
	a.Rewind()
}

// PlayIfNotCurrent rewinds and plays the animation with the given tag if it's not already playing
func (a *AnimPlayer) PlayIfNotCurrent(tag string) {
	if tag != a.CurrentAnimation.Tag {
		a.Play(tag)
	}
}

// Rewinds animation
func (a *AnimPlayer) Rewind() {
	a.frameIndex = 0
	a.frameElapsedTime = 0
	a.isEnded = false
	a.repeatCount = 0
	a.setFrame()
}

func (a *AnimPlayer) String() string {
	return fmt.Sprintf(debugFormat, a.CurrentAnimation.Tag,
		a.repeatCount,
		a.IsEnded(),
		a.frameIndex,
		a.frameElapsedTime,
		a.Paused)
}

// Animation for AnimPlayer
type Animation struct {

	// The animation tag name is identical to the Aseprite file
	Tag string

	// Animation frames in playback order
	Frames []Frame

	// Repeat specifies how many times the animation should play.
	// A value of 0 means infinite looping.
	Repeat uint16
}

// NewAnimPlayer plays the clips of res with the sprites of the main atlas.
// The first clip is assigned as CurrentAnimation.
func NewAnimPlayer(res *importer.Result) (*AnimPlayer, error) {
	return newAnimPlayer(res, res.Atlas, nil)
}

// NewAnimPlayerForTarget plays the clips of res with the atlas bound to
// target, such as the target of a @subTarget layer.
func NewAnimPlayerForTarget(res *importer.Result, target string) (*AnimPlayer, error) {
	if len(res.Clips) == 0 {
		return nil, ErrNoClips
	}
	for _, tr := range res.Clips[0].Tracks {
		if tr.Target != target {
			continue
		}
		for _, a := range res.Atlases() {
			if a.Name == tr.Atlas {
				return newAnimPlayer(res, a, nil)
			}
		}
	}
	return nil, fmt.Errorf("metasprite: no atlas for target %q", target)
}

// NewAnimPlayerFromAsepriteFile imports the file with the built-in meta
// layer actions. It panics on error.
//
// Do not read .ase/.aseprite files that do not have a tag.
func NewAnimPlayerFromAsepriteFile(asePath string, s config.Settings) *AnimPlayer {
	data, err := os.ReadFile(asePath)
	if err != nil {
		panic(err)
	}
	return mustAnimPlayer(data, asePath, s)
}

// NewAnimPlayerFromAsepriteFileSystem is like NewAnimPlayerFromAsepriteFile
// but reads from fsys.
func NewAnimPlayerFromAsepriteFileSystem(fsys fs.FS, asePath string, s config.Settings) *AnimPlayer {
	data, err := fs.ReadFile(fsys, asePath)
	if err != nil {
		panic(err)
	}
	return mustAnimPlayer(data, asePath, s)
}

func mustAnimPlayer(data []byte, asePath string, s config.Settings) *AnimPlayer {
	name := strings.TrimSuffix(filepath.Base(asePath), filepath.Ext(asePath))
	res, err := importer.Import(data, name, s, metalayer.Default())
	if err != nil {
		panic(err)
	}
	ap, err := NewAnimPlayer(res)
	if err != nil {
		panic(err)
	}
	return ap
}

// newAnimPlayer builds the animations of res over a. sprite returns the
// image of sprite i; nil cuts sub-images out of the atlas texture.
func newAnimPlayer(res *importer.Result, a *atlas.Atlas, sprite func(i int) *ebiten.Image) (*AnimPlayer, error) {
	if len(res.Clips) == 0 {
		return nil, ErrNoClips
	}

	ap := &AnimPlayer{Animations: make(map[string]*Animation, len(res.Clips))}
	if sprite == nil {
		ap.Atlas = ebiten.NewImageFromImage(a.Image())
		sprite = func(i int) *ebiten.Image {
			return ap.Atlas.SubImage(a.ImageRect(i)).(*ebiten.Image)
		}
	}

	images := make([]*ebiten.Image, len(a.Sprites))
	for i := range images {
		images[i] = sprite(i)
	}

	for _, c := range res.Clips {
		ap.Animations[c.Name] = newAnimation(res.File, a, c, images)
	}
	ap.CurrentAnimation = ap.Animations[res.Clips[0].Name]
	ap.Rewind()
	return ap, nil
}

func newAnimation(f *aseparser.File, a *atlas.Atlas, c *clip.Clip, images []*ebiten.Image) *Animation {
	events := make(map[int][]clip.Event)
	for _, e := range c.Events {
		fr := c.FrameAt(e.Time)
		events[fr] = append(events[fr], e)
	}

	frames := make([]Frame, 0, len(c.Keyframes))
	for fr := range c.Times() {
		p := a.PixelPivot(fr)
		frames = append(frames, Frame{
			Image:    images[fr],
			Pivot:    v.Vec{X: -p.X, Y: -p.Y},
			Duration: f.Frames[fr].Duration(),
			Events:   events[fr],
		})
	}

	switch c.Direction {
	case aseparser.PingPong:
		frames = pingPong(frames)
	case aseparser.Reverse:
		slices.Reverse(frames)
	case aseparser.PingPongReverse:
		slices.Reverse(frames)
		frames = pingPong(frames)
	}

	anim := &Animation{Tag: c.Name, Frames: frames}
	switch {
	case c.Loop:
		anim.Repeat = 0
	case c.Repeat > 0:
		anim.Repeat = c.Repeat
	default:
		anim.Repeat = 1
	}
	return anim
}

func pingPong(frames []Frame) []Frame {
	for i := len(frames) - 2; i > 0; i-- {
		frames = append(frames, frames[i])
	}
	return frames
}
