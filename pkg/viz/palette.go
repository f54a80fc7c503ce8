package viz

// Qualitative palettes matching Plotly's Dark24, Light24 and Set3.
var (
	dark24 = []string{
		"#2E91E5", "#E15F99", "#1CA71C", "#FB0D0D", "#DA16FF", "#222A2A",
		"#B68100", "#750D86", "#EB663B", "#511CFB", "#00A08B", "#FB00D1",
		"#FC0080", "#B2828D", "#6C7C32", "#778AAE", "#862A16", "#A777F1",
		"#620042", "#1616A7", "#DA60CA", "#6C4516", "#0D2A63", "#AF0038",
	}
	light24 = []string{
		"#FD3216", "#00FE35", "#6A76FC", "#FED4C4", "#FE00CE", "#0DF9FF",
		"#F6F926", "#FF9616", "#479B55", "#EEA6FB", "#DC587D", "#D626FF",
		"#6E899C", "#00B5F7", "#B68E00", "#C9FBE5", "#FF0092", "#22FFA7",
		"#E3EE9E", "#86CE00", "#BC7196", "#7E7DCD", "#FC6955", "#E48F72",
	}
	set3 = []string{
		"#8DD3C7", "#FFFFB3", "#BEBADA", "#FB8072", "#80B1D3", "#FDB462",
		"#B3DE69", "#FCCDE5", "#D9D9D9", "#BC80BD", "#CCEBC5", "#FFED6F",
	}

	geneColors   = append(append([]string{}, dark24...), light24...)
	regionColors = set3
)

func pick(palette []string, i int) string {
	return palette[i%len(palette)]
}
