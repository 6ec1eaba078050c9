package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// SymbolsEnv 传给外部命令的自定义符号表环境变量（JSON）
const SymbolsEnv = "ASCIIMATH_SYMBOLS"

// Command 每个公式启动一次外部命令：源码写入 stdin，从 stdout 读取 LaTeX
type Command struct {
	Name string
	Args []string
	// DisplayFlag display 模式时追加的参数，如 "--display"
	DisplayFlag string
}

// NewCommand 解析形如 "asciimath2tex --stdin" 的命令行
func NewCommand(cmdline string) (*Command, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, errors.New("translator command is empty")
	}
	return &Command{Name: fields[0], Args: fields[1:], DisplayFlag: "--display"}, nil
}

// Translate 运行命令
func (c *Command) Translate(ctx context.Context, source string, opts Options) (string, error) {
	args := append([]string{}, c.Args...)
	if opts.Display && c.DisplayFlag != "" {
		args = append(args, c.DisplayFlag)
	}

	cmd := exec.CommandContext(ctx, c.Name, args...)
	cmd.Stdin = strings.NewReader(source)
	cmd.Env = os.Environ()
	if len(opts.Symbols) > 0 {
		data, err := json.Marshal(opts.Symbols)
		if err != nil {
			return "", errors.Wrap(err, "failed to encode symbols")
		}
		cmd.Env = append(cmd.Env, SymbolsEnv+"="+string(data))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", &Error{Source: source, Err: errors.New(msg)}
	}
	return strings.TrimRight(stdout.String(), "\r\n"), nil
}
