package analyzer

import (
	"log"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/infra/browser"
)

// OnboardingState 首次访问引导流程的状态
// 状态推进是尽力而为的:目标元素不存在不算失败,记录日志后照常进入下一状态
type OnboardingState int

const (
	StateStart OnboardingState = iota
	StateModalDismissed
	StateStepped1
	StateStepped2
	StateStepped3
	StateFinished
	StateReady
)

func (s OnboardingState) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateModalDismissed:
		return "ModalDismissed"
	case StateStepped1:
		return "Stepped(1)"
	case StateStepped2:
		return "Stepped(2)"
	case StateStepped3:
		return "Stepped(3)"
	case StateFinished:
		return "Finished"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

type locatorKind int

const (
	locatorCSS locatorKind = iota
	locatorXPath
)

type transition struct {
	to       OnboardingState
	kind     locatorKind
	selector string
	desc     string
}

// 目标站引导UI的定位器
const (
	introModalCloseSelector = ".css-pt4g3d"
	nextButtonXPath         = `//button[contains(@class, 'pi-btn')]//span[text()='Next']/..`
	finishButtonXPath       = `//button[contains(@class, 'pi-btn')]//span[text()='Finish']/..`
	recentPnlTabXPath       = `//*[contains(text(), 'Recent PnL')]`
)

// onboardingFlow 引导流程的转移表,每一步都允许在元素缺失时空转
var onboardingFlow = []transition{
	{StateModalDismissed, locatorCSS, introModalCloseSelector, "引导弹窗关闭按钮"},
	{StateStepped1, locatorXPath, nextButtonXPath, "Next按钮(第1步)"},
	{StateStepped2, locatorXPath, nextButtonXPath, "Next按钮(第2步)"},
	{StateStepped3, locatorXPath, nextButtonXPath, "Next按钮(第3步)"},
	{StateFinished, locatorXPath, finishButtonXPath, "Finish按钮"},
}

type onboardingController struct {
	session     browser.Session
	elementWait time.Duration
	settleWait  time.Duration
}

func newOnboardingController(session browser.Session, elementWait, settleWait time.Duration) *onboardingController {
	return &onboardingController{
		session:     session,
		elementWait: elementWait,
		settleWait:  settleWait,
	}
}

// Run 按转移表推进到Ready,返回实际到达的终态
// 元素缺失不会中断流程,这个方法永远不返回错误
func (oc *onboardingController) Run() OnboardingState {
	state := StateStart
	for _, tr := range onboardingFlow {
		if oc.attempt(tr) {
			// 点击成功后等UI动画收敛再进入下一状态
			time.Sleep(oc.settleWait)
		}
		state = tr.to
	}
	state = StateReady
	return state
}

// ActivateContentTab 到达Ready后尽力激活Recent PnL内容页签
func (oc *onboardingController) ActivateContentTab() {
	if err := oc.session.ClickX(recentPnlTabXPath, oc.elementWait); err != nil {
		log.Printf("未找到 Recent PnL 页签,跳过: %v", err)
		return
	}
	log.Printf("已激活 Recent PnL 页签")
	time.Sleep(oc.settleWait)
}

func (oc *onboardingController) attempt(tr transition) bool {
	var err error
	switch tr.kind {
	case locatorCSS:
		err = oc.session.Click(tr.selector, oc.elementWait)
	case locatorXPath:
		err = oc.session.ClickX(tr.selector, oc.elementWait)
	}
	if err != nil {
		log.Printf("未找到%s,跳过 (目标状态: %s): %v", tr.desc, tr.to, err)
		return false
	}
	log.Printf("已点击%s (进入状态: %s)", tr.desc, tr.to)
	return true
}
