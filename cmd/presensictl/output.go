package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// table 以制表符对齐输出
func table(w io.Writer, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

// argID 解析位置参数中的正整数 ID
func argID(args []string, i int) (uint, error) {
	id, err := strconv.ParseUint(args[i], 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", args[i])
	}
	return uint(id), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
