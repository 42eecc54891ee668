// serialcli exchanges bytes with a microcontroller over a serial
// link. Options are actions, executed in the order given, so command
// lines read as scripts:
//
//	serialcli -b 9600 -p /dev/ttyUSB0 -d 2000 -s hello -d 100 -r
//
// means "open at 9600 baud, wait 2s, send 'hello', wait 100ms, read
// the reply".
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hwlink/serial"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const usageText = `Usage: serialcli -b <bps> -p <serialport> [OPTIONS]

Options:
  -h, --help                 Print this help message
  -l, --list                 List available serial ports
  -b, --baud=baudrate        Baudrate (bps) of device (default 9600)
  -p, --port=serialport      Serial port device is connected to
  -s, --send=string          Send string to device
  -S, --sendline=string      Send string with newline to device
  -i, --stdinput             Send lines from standard input
  -y, --byte                 Receive single byte from device & print it out
  -r, --receive              Receive string from device & print it out
  -n, --num=num              Send a number as a single byte
  -f, --input=ifile          Send file as input
  -v, --output=ofile         Save output to file
  -F, --flush                Flush serial port buffers for fresh reading
  -d, --delay=millis         Delay for specified milliseconds
  -e, --eolchar=char         Specify EOL char for reads (default '\n')
  -t, --timeout=millis       Timeout for reads in millisecs (default 5000)
  -q, --quiet                Don't print out as much info
      --config=file          Load defaults from a YAML config file
      --log-file=file        Also write logs to a rotating file

Note: Order is important. Set '-b' baudrate before opening port '-p'.
`

const lineMax = 256

type shell struct {
	session *serial.Session
	log     zerolog.Logger
	exit    func(int)

	baud    int
	eol     byte
	timeout time.Duration
	quiet   bool
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Print(usageText)
		os.Exit(0)
	}

	cfg, err := loadDefaults(configPath(args))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	sh := &shell{
		log:     newLogger(cfg.GetString("log_file")),
		exit:    os.Exit,
		baud:    cfg.GetInt("baud"),
		eol:     parseEOL(cfg.GetString("eol")),
		timeout: time.Duration(cfg.GetInt("timeout_ms")) * time.Millisecond,
		quiet:   cfg.GetBool("quiet"),
	}
	sh.session = serial.NewSession(sh.log)
	defer sh.session.Close()

	sh.run(args)
}

// run walks the argument list and executes each action in order,
// mirroring the classic getopt loop of serial talk tools.
func (sh *shell) run(args []string) {
	for i := 0; i < len(args); i++ {
		opt, val, hasVal := splitOpt(args[i])

		takeValue := func() string {
			if hasVal {
				return val
			}
			i++
			if i >= len(args) {
				sh.fatalf("option %s requires a value", opt)
			}
			return args[i]
		}

		switch opt {
		case "-h", "--help":
			fmt.Print(usageText)
			sh.shutdown(0)

		case "-q", "--quiet":
			sh.quiet = true

		case "--config":
			takeValue() // consumed in the pre-scan

		case "--log-file":
			sh.log = newLogger(takeValue())
			sh.session.SetLogger(sh.log)

		case "-l", "--list":
			ports, err := serial.AvailablePorts()
			if err != nil {
				sh.fatal(err)
			}
			for _, p := range ports {
				fmt.Println(p)
			}

		case "-b", "--baud":
			sh.baud = sh.parseInt(opt, takeValue())

		case "-e", "--eolchar":
			sh.eol = parseEOL(takeValue())
			sh.info().Msgf("eolchar set to %q", sh.eol)

		case "-t", "--timeout":
			ms := sh.parseInt(opt, takeValue())
			if ms < 0 {
				ms = 0
			}
			sh.timeout = time.Duration(ms) * time.Millisecond
			sh.info().Msgf("timeout set to %d millisecs", ms)

		case "-d", "--delay":
			ms := sh.parseInt(opt, takeValue())
			sh.info().Msgf("sleep %d millisecs", ms)
			time.Sleep(time.Duration(ms) * time.Millisecond)

		case "-p", "--port":
			sh.openPort(takeValue())

		case "-s", "--send":
			sh.send(takeValue())

		case "-S", "--sendline":
			sh.send(takeValue() + "\n")

		case "-n", "--num":
			n := sh.parseInt(opt, takeValue())
			if err := sh.requirePort().WriteByte(byte(n)); err != nil {
				sh.fatal(err)
			}

		case "-y", "--byte":
			sh.receiveByte()

		case "-r", "--receive":
			sh.receiveLine()

		case "-F", "--flush":
			sh.info().Msg("flushing receive buffer")
			if err := sh.requirePort().Flush(); err != nil {
				sh.fatal(err)
			}

		case "-f", "--input":
			sh.sendFile(takeValue())

		case "-v", "--output":
			sh.saveOutput(takeValue())

		case "-i", "--stdinput":
			sh.sendStdin()

		default:
			fmt.Fprintf(os.Stderr, "unknown option %q\n\n%s", opt, usageText)
			sh.shutdown(1)
		}
	}
}

func (sh *shell) openPort(device string) {
	if !serial.LooksLikePort(device) {
		sh.log.Warn().Str("device", device).Msg("path does not look like a serial device")
	}
	port, err := sh.session.Open(serial.Config{
		Device:      device,
		BaudRate:    sh.baud,
		EOL:         serial.EOLByte(sh.eol),
		ReadTimeout: sh.timeout,
		Logger:      &sh.log,
	})
	if err != nil {
		sh.fatal(err)
	}
	sh.info().Str("device", device).Int("baud", sh.baud).Msg("opened port")
	// Start every session from a known-empty line; freshly reset
	// devices tend to emit boot noise.
	if err := port.Flush(); err != nil {
		sh.fatal(err)
	}
}

func (sh *shell) send(s string) {
	sh.info().Msgf("send string:%s", s)
	if _, err := sh.requirePort().WriteString(s); err != nil {
		sh.fatal(err)
	}
}

func (sh *shell) receiveByte() {
	b, outcome, err := sh.requirePort().ReadByte(sh.timeout)
	if outcome == serial.ReadError {
		sh.fatal(err)
	}
	if outcome == serial.ReadTimeout {
		sh.info().Msg("read byte timed out")
	}
	fmt.Printf("0x%02x\n", b)
}

func (sh *shell) receiveLine() {
	line, _, err := sh.requirePort().ReadLine(sh.eol, lineMax, sh.timeout)
	if err != nil {
		sh.fatal(err)
	}
	fmt.Println(string(line))
}

func (sh *shell) sendFile(path string) {
	port := sh.requirePort()

	f, err := os.Open(path)
	if err != nil {
		sh.log.Error().Err(err).Str("file", path).Msg("error opening input file")
		return
	}
	defer f.Close()
	sh.info().Str("file", path).Msg("opened file")

	if err := port.Flush(); err != nil {
		sh.fatal(err)
	}

	var echo *os.File
	if !sh.quiet {
		echo = os.Stdout
	}
	start := time.Now()
	stats, err := serial.Stream(serial.NewFileSource(f), port, serial.StreamOptions{Echo: echo})
	fmt.Println()
	if err != nil {
		sh.fatal(err)
	}
	sh.info().
		Int64("bytes", stats.Bytes).
		Int64("drains", stats.Drains).
		Dur("elapsed", time.Since(start)).
		Msg("completed file send")
}

func (sh *shell) saveOutput(path string) {
	port := sh.requirePort()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		sh.log.Error().Err(err).Str("file", path).Msg("error opening output file")
		return
	}
	defer f.Close()
	sh.info().Str("file", path).Msg("opened file")

	var echo *os.File
	if !sh.quiet {
		echo = os.Stdout
	}
	stats, err := serial.Capture(port, f, serial.StreamOptions{
		ByteTimeout: sh.timeout,
		Echo:        echo,
	})
	fmt.Println()
	if err != nil {
		sh.fatal(err)
	}
	if stats.Bytes == 0 {
		sh.log.Error().Msg("no input found")
		return
	}
	sh.info().Int64("bytes", stats.Bytes).Msg("completed file save")
}

func (sh *shell) sendStdin() {
	port := sh.requirePort()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		sh.info().Msgf("send string:%s", line)
		if _, err := port.WriteString(line + "\n"); err != nil {
			sh.fatal(err)
		}
	}
	if err := scanner.Err(); err != nil {
		sh.fatal(err)
	}
}

func (sh *shell) requirePort() *serial.Port {
	port := sh.session.Port()
	if port == nil {
		sh.fatalf("serial port not opened")
	}
	return port
}

// info returns a log event that is discarded in quiet mode.
func (sh *shell) info() *zerolog.Event {
	if sh.quiet {
		return sh.log.Debug()
	}
	return sh.log.Info()
}

func (sh *shell) parseInt(opt, val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		sh.fatalf("option %s: invalid number %q", opt, val)
	}
	return n
}

func (sh *shell) fatal(err error) {
	sh.log.Error().Err(err).Msg("aborting command sequence")
	sh.shutdown(1)
}

func (sh *shell) fatalf(format string, args ...interface{}) {
	sh.log.Error().Msgf(format, args...)
	sh.shutdown(1)
}

// shutdown closes the session's port before the process exits, so no
// exit path skips the close-side flush.
func (sh *shell) shutdown(code int) {
	sh.session.Close()
	sh.exit(code)
}

// shortValueOpts are the short options that take a value and may
// carry it attached, getopt style: -b9600, -p/dev/ttyUSB0.
var shortValueOpts = map[string]bool{
	"-b": true, "-p": true, "-s": true, "-S": true, "-n": true,
	"-f": true, "-v": true, "-d": true, "-e": true, "-t": true,
}

// splitOpt separates "--opt=value" and attached short-option forms.
func splitOpt(arg string) (opt, val string, hasVal bool) {
	if strings.HasPrefix(arg, "--") {
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			return arg[:eq], arg[eq+1:], true
		}
		return arg, "", false
	}
	if len(arg) > 2 && arg[0] == '-' && shortValueOpts[arg[:2]] {
		return arg[:2], arg[2:], true
	}
	return arg, "", false
}

// configPath pre-scans the arguments for --config so defaults load
// before the action walk begins.
func configPath(args []string) string {
	for i, arg := range args {
		opt, val, hasVal := splitOpt(arg)
		if opt != "--config" {
			continue
		}
		if hasVal {
			return val
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func loadDefaults(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("baud", 9600)
	v.SetDefault("timeout_ms", 5000)
	v.SetDefault("eol", "\n")
	v.SetDefault("quiet", false)
	v.SetDefault("log_file", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	v.SetConfigName("serialcli")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/serialcli")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

func newLogger(logFile string) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	var w io.Writer = console
	if logFile != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func parseEOL(s string) byte {
	switch s {
	case "", `\n`:
		return '\n'
	case `\r`:
		return '\r'
	case `\0`:
		return 0
	default:
		return s[0]
	}
}
