// Package cv 封装基于 gocv 的底层图像操作
//
// 包括:
//   - 灰度模板匹配 (TM_CCOEFF_NORMED)，可限定搜索区域
//   - 区域裁剪、缩放、灰度转换
//   - 区域内按行/按列的平均亮度
//   - 参考图像库 (<目录>/<名称>.png)
//
// 基本用法:
//
//	store := cv.NewStore("./pict")
//	defer store.Close()
//	tmpl, err := store.Load("attack")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tmpl.Close()
//	res, err := cv.NewTemplateMatching(tmpl, gray, 0.8).Best(image.Rect(789, 391, 909, 439))
package cv
