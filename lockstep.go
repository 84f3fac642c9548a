// This file is part of Lockstep.
//
// Lockstep is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Lockstep is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Lockstep.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/lockstep-emu/lockstep/cartridgeloader"
	"github.com/lockstep-emu/lockstep/digest"
	"github.com/lockstep-emu/lockstep/environment"
	"github.com/lockstep-emu/lockstep/govern"
	"github.com/lockstep-emu/lockstep/hardware"
	"github.com/lockstep-emu/lockstep/logger"
	"github.com/lockstep-emu/lockstep/modalflag"
	"github.com/lockstep-emu/lockstep/performance"
	"github.com/lockstep-emu/lockstep/performance/limiter"
	"github.com/lockstep-emu/lockstep/prefs"
	"github.com/lockstep-emu/lockstep/regression"
	"github.com/lockstep-emu/lockstep/resources"
	"github.com/lockstep-emu/lockstep/script"
	"github.com/lockstep-emu/lockstep/statsview"
	"github.com/lockstep-emu/lockstep/wavwriter"

	"github.com/bradleyjkemp/memviz"
)

// exit values.
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

// the resources shared by all modes.
type session struct {
	md *modalflag.Modes

	// used by STEP mode when the input is not a terminal
	input io.Reader

	// receives interrupt signals
	intChan <-chan os.Signal
}

func main() {
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	os.Exit(launch(os.Args[1:], os.Stdout, os.Stdin, intChan))
}

func launch(args []string, output io.Writer, input io.Reader, intChan <-chan os.Signal) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("RUN", "STEP", "INFO", "STATE", "PERFORMANCE", "REGRESS")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	s := &session{
		md:      md,
		input:   input,
		intChan: intChan,
	}

	switch md.Mode() {
	case "RUN":
		err = s.run()
	case "STEP":
		err = s.step()
	case "INFO":
		err = s.info()
	case "STATE":
		err = s.state()
	case "PERFORMANCE":
		err = s.perform()
	case "REGRESS":
		err = s.regress()
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeError
	}

	return exitOK
}

// flags common to every mode that loads a cartridge.
type cartFlags struct {
	platform *string
	format   *string
	prefs    *string
	log      *bool
}

func addCartFlags(md *modalflag.Modes) cartFlags {
	return cartFlags{
		platform: md.AddString("platform", "", "platform: NES, NES-PAL, SMS, DMG (default from cartridge)"),
		format:   md.AddString("format", "", "cartridge format: INES, PLAIN (default from data)"),
		prefs:    md.AddString("prefs", "", "preferences for this run (key::value; key::value)"),
		log:      md.AddBool("log", false, "echo log to stdout"),
	}
}

// loader returns the loaded cartridge named by the single remaining argument.
func (s *session) loader(format string) (cartridgeloader.Loader, error) {
	switch len(s.md.RemainingArgs()) {
	case 0:
		return cartridgeloader.Loader{}, fmt.Errorf("cartridge required for %s mode", s.md)
	case 1:
	default:
		return cartridgeloader.Loader{}, fmt.Errorf("too many arguments for %s mode", s.md)
	}

	return cartridgeloader.NewLoader(s.md.GetArg(0), format), nil
}

// console creates a new console with the cartridge named on the command
// line.
func (s *session) console(cf cartFlags) (*hardware.Console, error) {
	cl, err := s.loader(*cf.format)
	if err != nil {
		return nil, err
	}

	if *cf.log {
		logger.SetEcho(logger.NewColorizer(s.md.Output), false)
	} else {
		logger.SetEcho(nil, false)
	}

	if *cf.prefs != "" {
		prefs.PushCommandLineStack(*cf.prefs)
		defer prefs.PopCommandLineStack()
	}

	if err := cl.Load(); err != nil {
		return nil, err
	}

	img, err := cl.Image()
	if err != nil {
		return nil, err
	}

	env, err := environment.NewEnvironment(nil, nil)
	if err != nil {
		return nil, err
	}

	platform := *cf.platform
	if platform == "" {
		platform = cl.Platform
	}

	return hardware.NewConsole(env, platform, img)
}

// returns a continue check that ends the emulation on an interrupt signal.
func (s *session) interruptCheck(lim *limiter.Limiter) func() (govern.State, error) {
	return func() (govern.State, error) {
		if lim != nil {
			lim.Wait()
		}
		select {
		case <-s.intChan:
			return govern.Ending, nil
		default:
		}
		return govern.Running, nil
	}
}

func (s *session) run() error {
	md := s.md
	md.NewMode()

	cf := addCartFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run (0 runs until interrupted)")
	fpsCap := md.AddBool("fpscap", false, "cap fps to specification")
	wav := md.AddString("wav", "", "record audio to wav file")
	battery := md.AddString("battery", "", "load and save battery backed RAM with this file")
	loadState := md.AddString("load", "", "restore state from file before running")
	saveState := md.AddString("save", "", "save state to file after running")
	scriptFile := md.AddString("script", "", "run lua script before running")
	rewind := md.AddInt("rewind", 0, "number of frames to keep in the rewind history")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	con, err := s.console(cf)
	if err != nil {
		return err
	}

	con.SetRewind(*rewind)

	if *battery != "" {
		if err := loadBattery(con, *battery); err != nil {
			return err
		}
	}

	if *loadState != "" {
		d, err := os.ReadFile(*loadState)
		if err != nil {
			return err
		}
		if err := con.Restore(d); err != nil {
			return err
		}
	}

	var aw *wavwriter.WavWriter
	if *wav != "" {
		if con.APU == nil {
			return fmt.Errorf("%s platform has no audio", con.Platform)
		}
		aw, err = wavwriter.New(*wav, con.APU.SampleRate())
		if err != nil {
			return err
		}
		con.APU.SetSink(aw)
	}

	err = s.runConsole(con, *frames, *fpsCap, *scriptFile)
	if errors.Is(err, script.ErrBreak) {
		fmt.Fprintf(md.Output, "! script break at %#04x\n", con.CPU.ProgramCounter())
		err = nil
	}
	if err != nil {
		return err
	}

	if aw != nil {
		if err := aw.EndMixing(); err != nil {
			return err
		}
	}

	if *battery != "" {
		if err := saveBattery(con, *battery); err != nil {
			return err
		}
	}

	if *saveState != "" {
		d, err := con.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*saveState, d, 0o644); err != nil {
			return err
		}
	}

	fmt.Fprintf(md.Output, "%d frames\n", con.TV.State().Frame)

	return nil
}

func (s *session) runConsole(con *hardware.Console, frames int, fpsCap bool, scriptFile string) error {
	if scriptFile != "" {
		scr := script.NewScript(con)
		defer scr.Close()
		if err := scr.DoFile(scriptFile); err != nil {
			return err
		}
		if err := scr.HookError(); err != nil {
			return err
		}
	}

	var lim *limiter.Limiter
	if fpsCap {
		lim = limiter.NewLimiter(con.TV.Spec().FramesPerSecond)
		defer lim.Stop()
	}

	check := s.interruptCheck(lim)

	if frames <= 0 {
		return con.Run(check)
	}

	return con.RunForFrameCount(frames, func(_ int) (govern.State, error) {
		return check()
	})
}

func loadBattery(con *hardware.Console, filename string) error {
	d, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return con.Cart.LoadBatteryRAM(d)
}

func saveBattery(con *hardware.Console, filename string) error {
	d, dirty := con.Cart.BatteryRAM()
	if d == nil || !dirty {
		return nil
	}
	if err := os.WriteFile(filename, d, 0o644); err != nil {
		return err
	}
	con.Cart.ClearDirty()
	return nil
}

func (s *session) info() error {
	md := s.md
	md.NewMode()

	format := md.AddString("format", "", "cartridge format: INES, PLAIN (default from data)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	cl, err := s.loader(*format)
	if err != nil {
		return err
	}

	if err := cl.Load(); err != nil {
		return err
	}

	img, err := cl.Image()
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "name:     %s\n", cl.ShortName())
	fmt.Fprintf(md.Output, "hash:     %s\n", img.Hash)
	fmt.Fprintf(md.Output, "image:    %s\n", img)
	if cl.Platform != "" {
		fmt.Fprintf(md.Output, "platform: %s\n", cl.Platform)
	}
	if img.PRGRAMSize > 0 {
		fmt.Fprintf(md.Output, "prg ram:  %dK\n", img.PRGRAMSize/1024)
	}
	if img.Trainer {
		fmt.Fprintln(md.Output, "trainer:  yes")
	}
	if img.NES2 {
		fmt.Fprintln(md.Output, "nes 2.0:  yes")
	}

	return nil
}

func (s *session) state() error {
	md := s.md
	md.NewMode()

	cf := addCartFlags(md)
	frames := md.AddInt("frames", 60, "number of frames to run before taking the snapshot")
	out := md.AddString("out", "", "write snapshot to file")
	graph := md.AddString("memviz", "", "write graphviz representation of the console to file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	con, err := s.console(cf)
	if err != nil {
		return err
	}

	hash, err := digest.RunFor(con, *frames)
	if err != nil {
		return err
	}

	fmt.Fprintf(md.Output, "%s\n", hash)

	if *out != "" {
		d, err := con.Snapshot()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*out, d, 0o644); err != nil {
			return err
		}
	}

	if *graph != "" {
		f, err := os.Create(*graph)
		if err != nil {
			return err
		}
		memviz.Map(f, con)
		if err := f.Close(); err != nil {
			return err
		}
	}

	return nil
}

func (s *session) perform() error {
	md := s.md
	md.NewMode()

	cf := addCartFlags(md)
	fpsCap := md.AddBool("fpscap", false, "cap fps to specification")
	duration := md.AddString("duration", "5s", "run duration (note: there is a 2s overhead)")
	profile := md.AddString("profile", "none", "run performance check with profiling: CPU, MEM, TRACE, ALL (comma separated)")
	stats := md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsviewAddress()))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	prf, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	con, err := s.console(cf)
	if err != nil {
		return err
	}

	if *stats {
		stop := statsview.Launch(md.Output)
		defer stop()
	}

	return performance.Check(md.Output, prf, con, *fpsCap, *duration)
}

func statsviewAddress() string {
	if !statsview.Available() {
		return "not available in this build"
	}
	return strings.Join([]string{statsview.Address, "debug/statsview"}, "/")
}

func (s *session) regress() error {
	md := s.md
	md.NewMode()
	md.AddSubModes("RUN", "LIST", "DELETE", "ADD")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch md.Mode() {
	case "RUN":
		return s.regressRun()
	case "LIST":
		return s.regressList()
	case "DELETE":
		return s.regressDelete()
	case "ADD":
		return s.regressAdd()
	}

	return nil
}

func addDBFlag(md *modalflag.Modes) *string {
	return md.AddString("db", "", "regression database (default in the resource directory)")
}

func regressionDB(db string) (string, error) {
	if db != "" {
		return db, nil
	}
	return resources.JoinPath("regressionDB")
}

func (s *session) regressRun() error {
	md := s.md
	md.NewMode()

	db := addDBFlag(md)
	verbose := md.AddBool("v", false, "output more detail for failures and errors")
	md.AdditionalHelp("the list of keys to run is optional. an empty list runs every test")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	path, err := regressionDB(*db)
	if err != nil {
		return err
	}

	return regression.RegressRun(md.Output, path, *verbose, md.RemainingArgs())
}

func (s *session) regressList() error {
	md := s.md
	md.NewMode()

	db := addDBFlag(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("no additional arguments required for %s mode", md)
	}

	path, err := regressionDB(*db)
	if err != nil {
		return err
	}

	return regression.RegressList(md.Output, path)
}

func (s *session) regressDelete() error {
	md := s.md
	md.NewMode()

	db := addDBFlag(md)
	answerYes := md.AddBool("yes", false, "answer yes to confirmation")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	switch len(md.RemainingArgs()) {
	case 0:
		return fmt.Errorf("database key required for %s mode", md)
	case 1:
	default:
		return fmt.Errorf("only one entry can be deleted at a time")
	}

	path, err := regressionDB(*db)
	if err != nil {
		return err
	}

	confirm := s.input
	if *answerYes {
		confirm = strings.NewReader("y")
	}

	return regression.RegressDelete(md.Output, confirm, path, md.GetArg(0))
}

func (s *session) regressAdd() error {
	md := s.md
	md.NewMode()

	db := addDBFlag(md)
	platform := md.AddString("platform", "", "platform: NES, NES-PAL, SMS, DMG (default from cartridge)")
	mode := md.AddString("mode", "state", "type of digest: STATE, AUDIO, BOTH")
	frames := md.AddInt("frames", 60, "number of frames to run")
	notes := md.AddString("notes", "", "additional annotation for the entry")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) == 0 {
		return fmt.Errorf("cartridge required for %s mode", md)
	}

	dm, err := regression.ParseDigestMode(*mode)
	if err != nil {
		return err
	}

	path, err := regressionDB(*db)
	if err != nil {
		return err
	}

	for _, cart := range md.RemainingArgs() {
		reg, err := regression.NewDigestRegression(cart, *platform, dm, *frames, *notes)
		if err != nil {
			return err
		}
		if err := regression.RegressAdd(md.Output, path, reg); err != nil {
			return err
		}
	}

	return nil
}
