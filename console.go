package lasmerge

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// 面向用户的控制台输出：进度条、提示信息和最终错误汇总
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	bar    progress.Model
	orange lipgloss.Style
	blue   lipgloss.Style
	purple lipgloss.Style
}

func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:      w,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		orange: r.NewStyle().Foreground(lipgloss.Color("173")),
		blue:   r.NewStyle().Foreground(lipgloss.Color("75")),
		purple: r.NewStyle().Foreground(lipgloss.Color("141")),
	}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	fmt.Fprintln(c.w, s)
	c.mu.Unlock()
}

func (c *Console) Progress(done, total int, subgrid string) {
	pct := 1.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	c.println(fmt.Sprintf("%s %d/%d %s%s", c.bar.ViewAs(pct), done, total,
		c.blue.Render("Processing subgrid: "), c.purple.Render(subgrid)))
}

func (c *Console) Noticef(format string, args ...any) {
	c.println(c.orange.Render(fmt.Sprintf(format, args...)))
}

func (c *Console) Infof(format string, args ...any) {
	c.println(c.blue.Render(fmt.Sprintf(format, args...)))
}

// 批处理结束时输出所有累计的错误
func (c *Console) Report(entries []string) {
	if len(entries) == 0 {
		return
	}
	c.println("\nErrors encountered:")
	for _, e := range entries {
		c.println("- " + e)
	}
}
