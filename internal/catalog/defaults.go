package catalog

// DefaultNames is the portfolio's stock gallery, used when no manifest or
// image directory is configured.
var DefaultNames = []string{
	"20240427_185549.jpg",
	"20240427_202511.jpg",
	"IMG_0549.jpg",
	"IMG_0552.jpg",
	"IMG_0622.JPG",
	"IMG_1681.JPG",
	"IMG_1705.jpg",
	"IMG_1722(1).jpg",
	"IMG_1722.jpg",
	"IMG_1835.jpg",
	"IMG_1908.jpg",
	"IMG_1981.jpg",
	"IMG_2013.jpg",
	"IMG_20190930_175815.jpg",
	"IMG_20191020_154943.jpg",
	"IMG_20191020_155304.jpg",
	"IMG_20191023_115308.jpg",
	"IMG_20191024_063833.jpg",
	"IMG_20191026_162447.jpg",
	"IMG_4466.JPG",
	"IMG_4934.JPG",
	"IMG_5969.JPG",
	"IMG_6293.JPG",
	"IMG_6442.JPG",
	"IMG_6594.JPG",
	"IMG_6772.JPG",
	"IMG_6873.JPG",
	"IMG_7380.JPG",
	"IMG_7734.jpg",
	"IMG_7774.JPG",
	"IMG_8555.JPG",
	"IMG_8593.JPG",
	"IMG_8744.JPG",
}

// Default returns the stock catalog under DefaultFolder.
func Default() *Catalog {
	return New(DefaultFolder, DefaultNames)
}
