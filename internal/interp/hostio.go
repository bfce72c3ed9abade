package interp

import (
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/termfx/lithium/internal/runtime"
)

// Host I/O builtins for the os and socket modules. Files, listeners and
// connections live in a descriptor table keyed by small numbers so
// programs handle them the way the original language does.

// socketSpec is an unbound socket: created by socket(), turned into a
// listener by listen() or a connection by connect().
type socketSpec struct {
	network string
	addr    string
	port    int
}

func (i *Interp) newHandle(h any) int {
	fd := i.nextFd
	i.nextFd++
	i.handles[fd] = h
	return fd
}

func (i *Interp) closeHandles() {
	for fd, h := range i.handles {
		closeHandle(h)
		delete(i.handles, fd)
	}
}

func closeHandle(h any) error {
	switch h := h.(type) {
	case *os.File:
		return h.Close()
	case net.Conn:
		return h.Close()
	case net.Listener:
		return h.Close()
	}
	return nil
}

func fdArg(call *runtime.Call, name string, idx int) (int, error) {
	n, isNum := call.Args[idx].(*runtime.Number)
	if !isNum {
		return 0, runtime.Errorf(call.Range, name+"() expects a number for the descriptor, but got "+call.Args[idx].TypeName())
	}
	fd := int(n.Val)
	if fd < 0 {
		return 0, runtime.Errorf(call.Range, "expected a valid file descriptor")
	}
	return fd, nil
}

func openFlags(mode string) (int, bool) {
	switch mode {
	case "r":
		return os.O_RDONLY, true
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, true
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, true
	case "r+":
		return os.O_RDWR, true
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, true
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, true
	}
	return 0, false
}

// builtinOpen opens a file and returns its descriptor; a file that
// cannot be opened yields null rather than an error.
func (i *Interp) builtinOpen(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 2 {
		return nil, arityErr(call, "open", "exactly 2 arguments")
	}
	name, isStr := call.Args[0].(*runtime.String)
	mode, modeStr := call.Args[1].(*runtime.String)
	if !isStr || !modeStr {
		return nil, runtime.Errorf(call.Range, "open() expects two string arguments")
	}
	flags, valid := openFlags(mode.Val)
	if !valid {
		return nil, runtime.Errorf(call.Range, "invalid file open mode: "+mode.Val)
	}
	f, err := os.OpenFile(name.Val, flags, 0o644)
	if err != nil {
		return runtime.NullValue, nil
	}
	return runtime.NewNumber(float64(i.newHandle(f))), nil
}

func (i *Interp) builtinClose(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "close", "exactly 1 argument")
	}
	fd, err := fdArg(call, "close", 0)
	if err != nil {
		return nil, err
	}
	h, open := i.handles[fd]
	if !open {
		return nil, runtime.Errorf(call.Range, "failed to close file descriptor "+strconv.Itoa(fd))
	}
	delete(i.handles, fd)
	if closeHandle(h) != nil {
		return nil, runtime.Errorf(call.Range, "failed to close file descriptor "+strconv.Itoa(fd))
	}
	return runtime.TrueValue, nil
}

func (i *Interp) builtinRead(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 2 {
		return nil, arityErr(call, "read", "exactly 2 arguments")
	}
	fd, err := fdArg(call, "read", 0)
	if err != nil {
		return nil, err
	}
	size, isNum := call.Args[1].(*runtime.Number)
	if !isNum || size.Val <= 0 {
		return nil, runtime.Errorf(call.Range, "expected a valid file descriptor and a positive size")
	}
	f, open := i.handles[fd].(*os.File)
	if !open {
		if conn, isConn := i.handles[fd].(net.Conn); isConn {
			return readConn(call, conn, int(size.Val), fd)
		}
		return nil, runtime.Errorf(call.Range, "failed to read from file descriptor "+strconv.Itoa(fd))
	}
	buf := make([]byte, int(size.Val))
	n, readErr := f.Read(buf)
	if readErr != nil && readErr != io.EOF {
		return nil, runtime.Errorf(call.Range, "failed to read from file descriptor "+strconv.Itoa(fd))
	}
	// EOF reads as an empty string.
	return runtime.NewString(string(buf[:n])), nil
}

func (i *Interp) builtinWrite(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 2 {
		return nil, arityErr(call, "write", "exactly 2 arguments")
	}
	fd, err := fdArg(call, "write", 0)
	if err != nil {
		return nil, err
	}
	data, isStr := call.Args[1].(*runtime.String)
	if !isStr {
		return nil, runtime.Errorf(call.Range, "write() expects a number and a string argument")
	}
	var n int
	var writeErr error
	switch h := i.handles[fd].(type) {
	case *os.File:
		n, writeErr = h.Write([]byte(data.Val))
	case net.Conn:
		n, writeErr = h.Write([]byte(data.Val))
	default:
		return nil, runtime.Errorf(call.Range, "failed to write to file descriptor "+strconv.Itoa(fd))
	}
	if writeErr != nil {
		return nil, runtime.Errorf(call.Range, "failed to write to file descriptor "+strconv.Itoa(fd))
	}
	return runtime.NewNumber(float64(n)), nil
}

// builtinShell runs a command (split on spaces, no shell interpolation)
// and returns its combined output; a non-zero status raises.
func (i *Interp) builtinShell(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "shell", "exactly 1 argument")
	}
	cmdStr, isStr := call.Args[0].(*runtime.String)
	if !isStr {
		return nil, runtime.Errorf(call.Range, "shell() expects a string argument, but got "+call.Args[0].TypeName())
	}
	argv := strings.Fields(cmdStr.Val)
	if len(argv) == 0 {
		return nil, runtime.Errorf(call.Range, "command cannot be empty")
	}
	out, err := exec.Command(argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		if exitErr, isExit := err.(*exec.ExitError); isExit {
			return nil, runtime.Errorf(call.Range, "command execution failed with status "+strconv.Itoa(exitErr.ExitCode()))
		}
		return nil, runtime.Errorf(call.Range, "command execution failed: "+err.Error())
	}
	return runtime.NewString(string(out)), nil
}

func (i *Interp) builtinSocket(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 3 {
		return nil, arityErr(call, "socket", "exactly 3 arguments")
	}
	kind, kindOk := call.Args[0].(*runtime.String)
	addr, addrOk := call.Args[1].(*runtime.String)
	port, portOk := call.Args[2].(*runtime.Number)
	if !kindOk || !addrOk || !portOk {
		return nil, runtime.Errorf(call.Range, "socket() expects a type, an address and a port")
	}
	if kind.Val != "tcp" && kind.Val != "udp" {
		return nil, runtime.Errorf(call.Range, "socket type must be 'tcp' or 'udp', but got '"+kind.Val+"'")
	}
	p := int(port.Val)
	if p < 0 || p > 65535 {
		return nil, runtime.Errorf(call.Range, "port number must be between 0 and 65535")
	}
	spec := &socketSpec{network: kind.Val, addr: addr.Val, port: p}
	return runtime.NewNumber(float64(i.newHandle(spec))), nil
}

func (i *Interp) builtinListen(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) < 1 || len(call.Args) > 2 {
		return nil, arityErr(call, "listen", "1 or 2 arguments")
	}
	fd, err := fdArg(call, "listen", 0)
	if err != nil {
		return nil, err
	}
	spec, isSpec := i.handles[fd].(*socketSpec)
	if !isSpec || spec.network != "tcp" {
		return nil, runtime.Errorf(call.Range, "failed to listen on socket "+strconv.Itoa(fd))
	}
	ln, listenErr := net.Listen("tcp", net.JoinHostPort(spec.addr, strconv.Itoa(spec.port)))
	if listenErr != nil {
		return nil, runtime.Errorf(call.Range, "failed to listen on socket "+strconv.Itoa(fd))
	}
	i.handles[fd] = ln
	return runtime.TrueValue, nil
}

func (i *Interp) builtinAccept(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 1 {
		return nil, arityErr(call, "accept", "exactly 1 argument")
	}
	fd, err := fdArg(call, "accept", 0)
	if err != nil {
		return nil, err
	}
	ln, isListener := i.handles[fd].(net.Listener)
	if !isListener {
		return nil, runtime.Errorf(call.Range, "failed to accept connection on socket "+strconv.Itoa(fd))
	}
	conn, acceptErr := ln.Accept()
	if acceptErr != nil {
		return nil, runtime.Errorf(call.Range, "failed to accept connection on socket "+strconv.Itoa(fd))
	}
	return runtime.NewNumber(float64(i.newHandle(conn))), nil
}

func (i *Interp) builtinConnect(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 3 {
		return nil, arityErr(call, "connect", "exactly 3 arguments")
	}
	fd, err := fdArg(call, "connect", 0)
	if err != nil {
		return nil, err
	}
	addr, addrOk := call.Args[1].(*runtime.String)
	port, portOk := call.Args[2].(*runtime.Number)
	if !addrOk || !portOk {
		return nil, runtime.Errorf(call.Range, "connect() expects an address and a port")
	}
	spec, isSpec := i.handles[fd].(*socketSpec)
	if !isSpec {
		return nil, runtime.Errorf(call.Range, "invalid socket file descriptor")
	}
	target := net.JoinHostPort(addr.Val, strconv.Itoa(int(port.Val)))
	conn, dialErr := net.Dial(spec.network, target)
	if dialErr != nil {
		delete(i.handles, fd)
		return nil, runtime.Errorf(call.Range, "failed to connect to "+target)
	}
	i.handles[fd] = conn
	return runtime.NewNumber(float64(fd)), nil
}

func (i *Interp) builtinSend(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 2 {
		return nil, arityErr(call, "send", "exactly 2 arguments")
	}
	fd, err := fdArg(call, "send", 0)
	if err != nil {
		return nil, err
	}
	data, isStr := call.Args[1].(*runtime.String)
	if !isStr {
		return nil, runtime.Errorf(call.Range, "send() expects a string for the data, but got "+call.Args[1].TypeName())
	}
	conn, isConn := i.handles[fd].(net.Conn)
	if !isConn {
		return nil, runtime.Errorf(call.Range, "failed to send data on socket "+strconv.Itoa(fd))
	}
	n, sendErr := conn.Write([]byte(data.Val))
	if sendErr != nil {
		return nil, runtime.Errorf(call.Range, "failed to send data on socket "+strconv.Itoa(fd))
	}
	return runtime.NewNumber(float64(n)), nil
}

func (i *Interp) builtinReceive(call *runtime.Call) (runtime.Value, error) {
	if len(call.Args) != 2 {
		return nil, arityErr(call, "receive", "exactly 2 arguments")
	}
	fd, err := fdArg(call, "receive", 0)
	if err != nil {
		return nil, err
	}
	size, isNum := call.Args[1].(*runtime.Number)
	if !isNum {
		return nil, runtime.Errorf(call.Range, "receive() expects a number for the size, but got "+call.Args[1].TypeName())
	}
	conn, isConn := i.handles[fd].(net.Conn)
	if !isConn {
		return nil, runtime.Errorf(call.Range, "failed to receive data on socket "+strconv.Itoa(fd))
	}
	return readConn(call, conn, int(size.Val), fd)
}

func readConn(call *runtime.Call, conn net.Conn, size, fd int) (runtime.Value, error) {
	if size <= 0 {
		return nil, runtime.Errorf(call.Range, "expected a positive size")
	}
	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return nil, runtime.Errorf(call.Range, "failed to receive data on socket "+strconv.Itoa(fd))
	}
	return runtime.NewString(string(buf[:n])), nil
}
