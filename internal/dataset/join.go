package dataset

import "sort"

// Join：按区划代码内连接观测与边界；任一侧未匹配的记录被丢弃
// 同一键的多条观测各自生成一条记录；名称优先取 CSV，缺失时取边界名称
func Join(obs []Observation, bounds []Boundary) []Region {
	byKey := make(map[string][]Observation, len(obs))
	for _, o := range obs {
		byKey[o.Key] = append(byKey[o.Key], o)
	}
	var out []Region
	for _, b := range bounds {
		for _, o := range byKey[b.ID] {
			name := o.Name
			if name == "" {
				name = b.Name
			}
			out = append(out, Region{ID: b.ID, Name: name, Value: o.Value, Geometry: b.Geometry})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
