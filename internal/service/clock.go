package service

import "time"

// timeNow 测试中可替换的时钟
var timeNow = time.Now
