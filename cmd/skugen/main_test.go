package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"skugen"}, args...))
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, err := runApp(t, "", "generate", "当归", "dang gui")
	require.NoError(t, err)
	require.Equal(t, "DG\n", out)
}

func TestBatchCommand(t *testing.T) {
	in := "chineseName,pinyinName\n当归,dang gui\n川芎,chuan xiong\n大黄,da huang\n"
	out, err := runApp(t, in, "batch", "--header")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"chineseName,pinyinName,sku",
		"当归,dang gui,DG",
		"川芎,chuan xiong,CX",
		"大黄,da huang,DH",
	}, lines)
}

func TestBatchCommandRejectsBlankName(t *testing.T) {
	_, err := runApp(t, ",dang gui\n", "batch")
	require.ErrorContains(t, err, "line 1")
}

func TestConvertCommand(t *testing.T) {
	out, err := runApp(t, "", "convert", "TCM-DG-001", "当归", "dang gui")
	require.NoError(t, err)
	require.Equal(t, "DG\n", out)
}

func TestValidateCommand(t *testing.T) {
	out, err := runApp(t, "", "validate", "DG", "ABCD")
	require.NoError(t, err)
	require.Equal(t, "DG\ttrue\nABCD\ttrue\n", out)

	_, err = runApp(t, "", "validate", "DG", "dg1")
	require.ErrorContains(t, err, "dg1")
}
