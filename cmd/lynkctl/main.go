// Command lynkctl is the operator-facing CLI built on the core: a
// single-keystroke demo surface (T/L/G/W/F/Q) plus a ':'-prefixed
// free-text line for sending each command type
// (reboot, set_mode, takeoff, landing, gimbal, goto, follow_me,
// waypoints) to the -dst node. The free-text line sends the basic
// forms only: targeted takeoff, targeted landing and follow_me with
// an altitude are not reachable from it.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/shlex"

	"github.com/tayfurcnr/lynk/command"
	"github.com/tayfurcnr/lynk/config"
	"github.com/tayfurcnr/lynk/logging"
	"github.com/tayfurcnr/lynk/node"
	"github.com/tayfurcnr/lynk/payload"
	"github.com/tayfurcnr/lynk/protocol"
	"github.com/tayfurcnr/lynk/telemetry"
)

var (
	configPath = flag.String("config", "config.json", "Path to the node's JSON configuration file")
	dstFlag    = flag.Uint("dst", 0xFF, "Destination node address for demo and free-text commands")
	demoFile   = flag.String("demo-file", "", "File to send when the F key is pressed")
)

// demo values for the G and W keys: a fixed goto target and a fixed
// waypoint list, used so the keys work without any operator input.
var (
	demoGoto      = payload.Vec3{X: 10, Y: 20, Z: 5}
	demoWaypoints = []payload.Vec3{
		{X: 0, Y: 0, Z: 5},
		{X: 10, Y: 0, Z: 5},
		{X: 10, Y: 10, Z: 5},
	}
	demoTakeoffAlt float32 = 10
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		logging.Log.WithError(err).Fatal("lynkctl: fatal error")
	}
}

func run() error {
	data, err := os.ReadFile(*configPath)
	if err != nil {
		return fmt.Errorf("lynkctl: read config: %w", err)
	}
	cfg, err := config.Load(data)
	if err != nil {
		return fmt.Errorf("lynkctl: load config: %w", err)
	}
	logging.SetLevel(cfg.Logging.Level)

	n, err := node.New(cfg, command.LoggingBridge{}, telemetry.ZeroSource{})
	if err != nil {
		return fmt.Errorf("lynkctl: build node: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Start(ctx); err != nil {
		return fmt.Errorf("lynkctl: start node: %w", err)
	}
	defer n.Stop()

	term, err := newRawTerm(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("lynkctl: terminal setup: %w", err)
	}
	if err := term.Enable(); err != nil {
		return fmt.Errorf("lynkctl: enable raw mode: %w", err)
	}
	defer term.Restore()

	dst := uint8(*dstFlag)
	fmt.Printf("lynkctl connected, node id %d, target %d\r\n", n.LocalID, dst)
	fmt.Print("T takeoff  L landing  G goto  W waypoints  F send file  : command line  Q quit\r\n")

	c := &cli{n: n, term: term, dst: dst, reader: bufio.NewReader(os.Stdin)}
	return c.loop()
}

type cli struct {
	n      *node.Node
	term   *rawTerm
	dst    uint8
	reader *bufio.Reader
}

func (c *cli) loop() error {
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return fmt.Errorf("lynkctl: read stdin: %w", err)
		}

		switch key := byte(strings.ToUpper(string(buf[0]))[0]); key {
		case 'T':
			c.send(command.BuildTakeoff(demoTakeoffAlt), "TAKEOFF")
		case 'L':
			c.send(command.BuildLanding(), "LANDING")
		case 'G':
			c.send(command.BuildGoto(demoGoto.X, demoGoto.Y, demoGoto.Z), "GOTO")
		case 'W':
			c.send(command.BuildWaypoints(demoWaypoints), "WAYPOINTS")
		case 'F':
			c.sendFile()
		case 'Q':
			fmt.Print("\r\nquit\r\n")
			return nil
		case ':':
			c.commandLine()
		case '\r', '\n':
			// ignore bare newlines between keystrokes
		default:
			logging.Log.WithField("key", string(key)).Warn("lynkctl: unknown key")
		}
	}
}

func (c *cli) send(body []byte, label string) {
	if err := c.n.Channel.Send(protocol.TypeCommand, c.n.LocalID, c.dst, body); err != nil {
		logging.Log.WithError(err).WithField("command", label).Error("lynkctl: send failed")
		return
	}
	fmt.Printf("\r\nsent %s to %d\r\n", label, c.dst)
}

func (c *cli) sendFile() {
	if *demoFile == "" {
		fmt.Print("\r\nno -demo-file configured\r\n")
		return
	}
	fmt.Printf("\r\nsending %s to %d...\r\n", *demoFile, c.dst)
	result, err := c.n.FTPSender.SendFile(c.n.Channel, c.dst, *demoFile)
	if err != nil {
		logging.Log.WithError(err).Error("lynkctl: file transfer failed")
		return
	}
	fmt.Printf("transfer finished: %+v\r\n", result)
}

// commandLine temporarily restores canonical mode so the operator can
// type a full command line, parsed with shlex so quoted arguments
// (file paths, mode names) behave like a shell would.
func (c *cli) commandLine() {
	if err := c.term.Restore(); err != nil {
		logging.Log.WithError(err).Error("lynkctl: restore terminal failed")
		return
	}
	defer func() {
		if err := c.term.Enable(); err != nil {
			logging.Log.WithError(err).Error("lynkctl: re-enable raw mode failed")
		}
	}()

	fmt.Print("\r\n: ")
	line, err := c.reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		fmt.Printf("lynkctl: could not parse command: %v\r\n", err)
		return
	}

	if err := c.dispatch(args); err != nil {
		fmt.Printf("lynkctl: %v\r\n", err)
	}
}

func (c *cli) dispatch(args []string) error {
	name, rest := args[0], args[1:]
	switch name {
	case "help", "?":
		printHelp()
		return nil
	case "quit", "exit":
		fmt.Print("quit\r\n")
		os.Exit(0)
		return nil
	case "reboot":
		c.send(command.BuildReboot(), "REBOOT")
		return nil
	case "set_mode":
		mode, err := expectUint8(rest, 0)
		if err != nil {
			return err
		}
		c.send(command.BuildSetMode(mode), "SET_MODE")
		return nil
	case "takeoff":
		alt, err := expectFloat(rest, 0)
		if err != nil {
			return err
		}
		c.send(command.BuildTakeoff(alt), "TAKEOFF")
		return nil
	case "landing":
		c.send(command.BuildLanding(), "LANDING")
		return nil
	case "gimbal":
		v, err := expectVec3(rest)
		if err != nil {
			return err
		}
		c.send(command.BuildGimbal(v.X, v.Y, v.Z), "GIMBAL")
		return nil
	case "goto":
		v, err := expectVec3(rest)
		if err != nil {
			return err
		}
		c.send(command.BuildGoto(v.X, v.Y, v.Z), "GOTO")
		return nil
	case "follow_me":
		id, err := expectUint32(rest, 0)
		if err != nil {
			return err
		}
		c.send(command.BuildFollowMe(id), "FOLLOW_ME")
		return nil
	case "waypoints":
		points, err := expectWaypoints(rest)
		if err != nil {
			return err
		}
		c.send(command.BuildWaypoints(points), "WAYPOINTS")
		return nil
	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
}

func printHelp() {
	fmt.Print("\r\ncommands:\r\n" +
		"  reboot\r\n" +
		"  set_mode <mode>\r\n" +
		"  takeoff <alt>\r\n" +
		"  landing\r\n" +
		"  gimbal <pitch> <yaw> <roll>\r\n" +
		"  goto <x> <y> <z>\r\n" +
		"  follow_me <id>\r\n" +
		"  waypoints <x,y,z> [x,y,z ...]\r\n" +
		"  help | quit\r\n")
}

func expectFloat(args []string, i int) (float32, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("expected a number at position %d", i)
	}
	v, err := strconv.ParseFloat(args[i], 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", args[i], err)
	}
	return float32(v), nil
}

func expectUint8(args []string, i int) (uint8, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("expected an integer at position %d", i)
	}
	v, err := strconv.ParseUint(args[i], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%q is not a byte: %w", args[i], err)
	}
	return uint8(v), nil
}

func expectUint32(args []string, i int) (uint32, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("expected an integer at position %d", i)
	}
	v, err := strconv.ParseUint(args[i], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer: %w", args[i], err)
	}
	return uint32(v), nil
}

func expectVec3(args []string) (payload.Vec3, error) {
	if len(args) < 3 {
		return payload.Vec3{}, fmt.Errorf("expected 3 numbers, got %d", len(args))
	}
	x, err := expectFloat(args, 0)
	if err != nil {
		return payload.Vec3{}, err
	}
	y, err := expectFloat(args, 1)
	if err != nil {
		return payload.Vec3{}, err
	}
	z, err := expectFloat(args, 2)
	if err != nil {
		return payload.Vec3{}, err
	}
	return payload.Vec3{X: x, Y: y, Z: z}, nil
}

// expectWaypoints parses one or more "x,y,z" triplets.
func expectWaypoints(args []string) ([]payload.Vec3, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("expected at least one x,y,z waypoint")
	}
	points := make([]payload.Vec3, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%q is not an x,y,z triplet", arg)
		}
		v, err := expectVec3(parts)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", arg, err)
		}
		points = append(points, v)
	}
	return points, nil
}
